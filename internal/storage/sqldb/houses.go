package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

const houseColumns = `id, owner_id, name, postal_code, street, number, district, city, state, complement, created_at, updated_at`

// CreateHouse persists a new house, generating its ID and timestamps if unset.
func (q *queries) CreateHouse(ctx context.Context, house *models.House) error {
	if house.ID == "" {
		house.ID = uuid.New().String()
	}
	if house.CreatedAt == 0 {
		house.CreatedAt = time.Now().Unix()
	}
	house.UpdatedAt = house.CreatedAt

	_, err := q.exec(ctx,
		`INSERT INTO houses (`+houseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		house.ID, house.OwnerID, house.Name, house.PostalCode, house.Street, house.Number,
		house.District, house.City, house.State, nullString(house.Complement),
		house.CreatedAt, house.UpdatedAt,
	)
	if err != nil {
		return q.insertErr(err, "house")
	}
	return nil
}

// GetHouse retrieves a house by ID.
func (q *queries) GetHouse(ctx context.Context, houseID string) (*models.House, error) {
	house, err := scanHouse(q.queryRow(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE id = ?`, houseID))
	if err != nil {
		return nil, notFound(err, "house", houseID)
	}
	return house, nil
}

// ListHousesByOwner retrieves all houses managed by a user, oldest first.
func (q *queries) ListHousesByOwner(ctx context.Context, ownerID string) ([]*models.House, error) {
	rows, err := q.query(ctx,
		`SELECT `+houseColumns+` FROM houses WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list houses: %w", err)
	}
	defer rows.Close()

	var houses []*models.House
	for rows.Next() {
		house, err := scanHouse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan house: %w", err)
		}
		houses = append(houses, house)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate houses: %w", err)
	}
	return houses, nil
}

// DeleteHouse removes a house; rooms, members, expenses and payments go
// with it through ON DELETE CASCADE.
func (q *queries) DeleteHouse(ctx context.Context, houseID string) error {
	res, err := q.exec(ctx, `DELETE FROM houses WHERE id = ?`, houseID)
	if err != nil {
		return fmt.Errorf("failed to delete house: %w", err)
	}
	return expectOne(res, "house", houseID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHouse(row rowScanner) (*models.House, error) {
	house := &models.House{}
	var complement sql.NullString
	if err := row.Scan(&house.ID, &house.OwnerID, &house.Name, &house.PostalCode, &house.Street,
		&house.Number, &house.District, &house.City, &house.State, &complement,
		&house.CreatedAt, &house.UpdatedAt); err != nil {
		return nil, err
	}
	house.Complement = complement.String
	return house, nil
}
