package domain

// RoomCategory is a named room type with the number of main beds it offers.
type RoomCategory struct {
	Name        string
	BedCapacity int
}
