package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

// CreateRoom persists a new room. A duplicate number within the house is a
// conflict.
func (q *queries) CreateRoom(ctx context.Context, room *models.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	if room.CreatedAt == 0 {
		room.CreatedAt = time.Now().Unix()
	}
	room.UpdatedAt = room.CreatedAt

	_, err := q.exec(ctx,
		`INSERT INTO rooms (id, house_id, number, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		room.ID, room.HouseID, room.Number, room.CreatedAt, room.UpdatedAt,
	)
	if err != nil {
		return q.insertErr(err, fmt.Sprintf("room %d", room.Number))
	}
	return nil
}

// GetRoom retrieves a room by ID.
func (q *queries) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room := &models.Room{}
	err := q.queryRow(ctx,
		`SELECT id, house_id, number, created_at, updated_at FROM rooms WHERE id = ?`, roomID,
	).Scan(&room.ID, &room.HouseID, &room.Number, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "room", roomID)
	}
	return room, nil
}

// ListRooms retrieves the rooms of a house ordered by number.
func (q *queries) ListRooms(ctx context.Context, houseID string) ([]*models.Room, error) {
	rows, err := q.query(ctx,
		`SELECT id, house_id, number, created_at, updated_at FROM rooms WHERE house_id = ? ORDER BY number`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		if err := rows.Scan(&room.ID, &room.HouseID, &room.Number, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}
	return rooms, nil
}

// DeleteRoom removes a room by ID.
func (q *queries) DeleteRoom(ctx context.Context, roomID string) error {
	res, err := q.exec(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return expectOne(res, "room", roomID)
}
