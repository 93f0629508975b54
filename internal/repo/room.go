package repo

import (
	"context"
	"fmt"

	"github.com/pkordes/hotel-offers/internal/domain"
)

// RoomRepo reads the room category catalog.
type RoomRepo interface {
	// List returns every room category in insertion order.
	List(ctx context.Context) ([]domain.RoomCategory, error)
}

type pgRoomRepo struct {
	db db
}

// NewRoomRepo constructs a RoomRepo backed by the provided db connection.
func NewRoomRepo(db db) RoomRepo {
	return &pgRoomRepo{db: db}
}

func (r *pgRoomRepo) List(ctx context.Context) ([]domain.RoomCategory, error) {
	const q = `
		SELECT room_category, number_of_main_beds
		FROM room_characteristics
		ORDER BY id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.List: %w", err)
	}
	defer rows.Close()

	var rooms []domain.RoomCategory
	for rows.Next() {
		var room domain.RoomCategory
		if err := rows.Scan(&room.Name, &room.BedCapacity); err != nil {
			return nil, fmt.Errorf("repo.RoomRepo.List: scan: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RoomRepo.List: rows: %w", err)
	}
	return rooms, nil
}
