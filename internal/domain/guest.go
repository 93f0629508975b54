// Package domain contains the core data types for the hotel offers pricing service.
// This package depends only on the standard library and google/uuid and is
// imported by every other internal package (pricing, repo, service, handler).
package domain

// Guest is a customer profile as seen by the pricing engine.
// The engine only reads guests; profiles are created and edited elsewhere.
type Guest struct {
	ID        int64
	FirstName string
	LastName  string

	Adults  int
	Teens   int
	Infants int // never counted against room capacity

	// PreferredCategories are free-text category names entered by the guest.
	// An empty list means "any category that fits the party".
	PreferredCategories []string

	// LoyaltyStatus is the loyalty tier label, compared case-insensitively.
	LoyaltyStatus string

	// DesiredPricePerNight is the budget used by the notification query.
	// Zero means the guest has not set one.
	DesiredPricePerNight int
}

// Occupants returns the number of guests that need a main bed.
func (g Guest) Occupants() int {
	return g.Adults + g.Teens
}
