package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

const memberColumns = `id, house_id, room_id, full_name, email, phone, created_at, updated_at, departed_at`

// CreateMember persists a new active member. The partial unique indexes
// reject an email, phone or room already held by another active member.
func (q *queries) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}
	member.UpdatedAt = member.CreatedAt
	member.DepartedAt = 0

	_, err := q.exec(ctx,
		`INSERT INTO members (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		member.ID, member.HouseID, nullString(member.RoomID), member.FullName,
		member.Email, member.Phone, member.CreatedAt, member.UpdatedAt,
	)
	if err != nil {
		return q.insertErr(err, "active member with this email, phone or room")
	}
	return nil
}

// GetMember retrieves a member by ID regardless of lifecycle state.
func (q *queries) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	member, err := scanMember(q.queryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, memberID))
	if err != nil {
		return nil, notFound(err, "member", memberID)
	}
	return member, nil
}

// FindActiveMemberByEmail returns the active member using email, if any.
func (q *queries) FindActiveMemberByEmail(ctx context.Context, email string) (*models.Member, error) {
	return q.findActive(ctx, "email", email)
}

// FindActiveMemberByPhone returns the active member using phone, if any.
func (q *queries) FindActiveMemberByPhone(ctx context.Context, phone string) (*models.Member, error) {
	return q.findActive(ctx, "phone", phone)
}

// FindActiveMemberInRoom returns the active occupant of a room, if any.
func (q *queries) FindActiveMemberInRoom(ctx context.Context, roomID string) (*models.Member, error) {
	return q.findActive(ctx, "room_id", roomID)
}

// findActive looks up an active member by one of the columns covered by a
// partial unique index. column is never user input.
func (q *queries) findActive(ctx context.Context, column, value string) (*models.Member, error) {
	member, err := scanMember(q.queryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE `+column+` = ? AND departed_at IS NULL`, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member by %s: %w", column, err)
	}
	return member, nil
}

// ListMembers retrieves the members of a house. Departed members are
// included only when includeInactive is set.
func (q *queries) ListMembers(ctx context.Context, houseID string, includeInactive bool) ([]*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE house_id = ?`
	if !includeInactive {
		query += ` AND departed_at IS NULL`
	}
	query += ` ORDER BY created_at, full_name, id`

	rows, err := q.query(ctx, query, houseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// CountActiveMembers counts the active members of a house.
func (q *queries) CountActiveMembers(ctx context.Context, houseID string) (int, error) {
	var n int
	err := q.queryRow(ctx,
		`SELECT COUNT(*) FROM members WHERE house_id = ? AND departed_at IS NULL`, houseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return n, nil
}

// UpdateMember writes name, contact data and room of an active member.
func (q *queries) UpdateMember(ctx context.Context, member *models.Member) error {
	member.UpdatedAt = time.Now().Unix()
	res, err := q.exec(ctx,
		`UPDATE members SET full_name = ?, email = ?, phone = ?, room_id = ?, updated_at = ?
		 WHERE id = ? AND departed_at IS NULL`,
		member.FullName, member.Email, member.Phone, nullString(member.RoomID), member.UpdatedAt,
		member.ID,
	)
	if err != nil {
		return q.insertErr(err, "active member with this email, phone or room")
	}
	return expectOne(res, "active member", member.ID)
}

// DeactivateMember marks the member as departed and frees its room in one
// statement. Payments referencing the member are not touched.
func (q *queries) DeactivateMember(ctx context.Context, houseID, memberID string, departedAt int64) error {
	res, err := q.exec(ctx,
		`UPDATE members SET departed_at = ?, room_id = NULL, updated_at = ?
		 WHERE id = ? AND house_id = ? AND departed_at IS NULL`,
		departedAt, departedAt, memberID, houseID,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate member: %w", err)
	}
	return expectOne(res, "active member", memberID)
}

func scanMember(row rowScanner) (*models.Member, error) {
	member := &models.Member{}
	var roomID sql.NullString
	var departedAt sql.NullInt64
	if err := row.Scan(&member.ID, &member.HouseID, &roomID, &member.FullName, &member.Email,
		&member.Phone, &member.CreatedAt, &member.UpdatedAt, &departedAt); err != nil {
		return nil, err
	}
	member.RoomID = roomID.String
	member.DepartedAt = departedAt.Int64
	return member, nil
}
