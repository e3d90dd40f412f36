// Package membership manages who lives in a house: the active/departed
// lifecycle of members and the occupancy of rooms.
//
// Every operation runs in a single store transaction. The checks below give
// precise error kinds in the common case; the partial unique indexes in the
// schema are what make them hold under concurrent writers.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Republica-Facil/republica-facil-backend/internal/cache"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/observability/metrics"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
)

// Manager implements the member lifecycle and room occupancy rules.
type Manager struct {
	store  storage.Store
	cache  cache.Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a Manager. c may be cache.Unavailable{}.
func NewManager(store storage.Store, c cache.Cache, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		cache:  c,
		logger: logger,
		now:    time.Now,
	}
}

// MemberInput holds the writable fields of a member. RoomID empty means no
// room.
type MemberInput struct {
	FullName string
	Email    string
	Phone    string
	RoomID   string
}

func (in MemberInput) normalize() (MemberInput, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.RoomID = strings.TrimSpace(in.RoomID)

	switch {
	case in.FullName == "":
		return in, fmt.Errorf("%w: full name is required", models.ErrInvalidArgument)
	case in.Email == "":
		return in, fmt.Errorf("%w: email is required", models.ErrInvalidArgument)
	case in.Phone == "":
		return in, fmt.Errorf("%w: phone is required", models.ErrInvalidArgument)
	}
	return in, nil
}

// CreateMember adds an active member to a house, optionally placing them in
// a room.
func (m *Manager) CreateMember(ctx context.Context, houseID string, in MemberInput) (*models.Member, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		HouseID:  houseID,
		RoomID:   in.RoomID,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
	}

	err = m.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		if err := checkContactFree(ctx, q, "", in.Email, in.Phone); err != nil {
			return err
		}
		if in.RoomID != "" {
			if err := checkRoomFree(ctx, q, houseID, in.RoomID, ""); err != nil {
				return err
			}
		}
		member.CreatedAt = m.now().Unix()
		return q.CreateMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	m.invalidateSummary(ctx, houseID)
	m.logger.Info("Member created", "house_id", houseID, "member_id", member.ID, "room_id", member.RoomID)
	return member, nil
}

// ReassignRoom moves an active member to roomID, or out of any room when
// roomID is empty.
func (m *Manager) ReassignRoom(ctx context.Context, houseID, memberID, roomID string) (*models.Member, error) {
	roomID = strings.TrimSpace(roomID)

	var member *models.Member
	err := m.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		member, err = activeMemberOf(ctx, q, houseID, memberID)
		if err != nil {
			return err
		}
		if roomID != "" && roomID != member.RoomID {
			if err := checkRoomFree(ctx, q, houseID, roomID, member.ID); err != nil {
				return err
			}
		}
		member.RoomID = roomID
		return q.UpdateMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Member room reassigned", "house_id", houseID, "member_id", memberID, "room_id", roomID)
	return member, nil
}

// UpdateMember replaces an active member's name, contact data and room.
// Contact uniqueness is checked against other active members only.
func (m *Manager) UpdateMember(ctx context.Context, houseID, memberID string, in MemberInput) (*models.Member, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var member *models.Member
	err = m.store.InTx(ctx, func(q storage.Queries) error {
		var err error
		member, err = activeMemberOf(ctx, q, houseID, memberID)
		if err != nil {
			return err
		}

		if err := checkContactFree(ctx, q, member.ID, in.Email, in.Phone); err != nil {
			return err
		}
		if in.RoomID != "" && in.RoomID != member.RoomID {
			if err := checkRoomFree(ctx, q, houseID, in.RoomID, member.ID); err != nil {
				return err
			}
		}

		member.FullName = in.FullName
		member.Email = in.Email
		member.Phone = in.Phone
		member.RoomID = in.RoomID
		return q.UpdateMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	m.invalidateSummary(ctx, houseID)
	m.logger.Info("Member updated", "house_id", houseID, "member_id", memberID)
	return member, nil
}

// DeactivateMember marks an active member as departed and frees their room.
// Their payments stay in place. Deactivating a departed member, or one from
// another house, is NotFound.
func (m *Manager) DeactivateMember(ctx context.Context, houseID, memberID string) (*models.Member, error) {
	var member *models.Member
	err := m.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		if err := q.DeactivateMember(ctx, houseID, memberID, m.now().Unix()); err != nil {
			return err
		}
		var err error
		member, err = q.GetMember(ctx, memberID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncMembersDeactivated()
	m.invalidateSummary(ctx, houseID)
	m.logger.Info("Member deactivated", "house_id", houseID, "member_id", memberID, "departed_at", member.DepartedAt)
	return member, nil
}

// ListMembers returns the active members of a house, or every member ever
// registered when includeInactive is set.
func (m *Manager) ListMembers(ctx context.Context, houseID string, includeInactive bool) ([]*models.Member, error) {
	if _, err := m.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	return m.store.ListMembers(ctx, houseID, includeInactive)
}

// GetMember returns a member of the house in any lifecycle state.
func (m *Manager) GetMember(ctx context.Context, houseID, memberID string) (*models.Member, error) {
	member, err := m.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.HouseID != houseID {
		return nil, fmt.Errorf("%w: member %s", models.ErrNotFound, memberID)
	}
	return member, nil
}

// CreateRoom adds a room with a number unique within the house.
func (m *Manager) CreateRoom(ctx context.Context, houseID string, number int) (*models.Room, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: room number must be positive", models.ErrInvalidArgument)
	}

	room := &models.Room{HouseID: houseID, Number: number}
	err := m.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		room.CreatedAt = m.now().Unix()
		return q.CreateRoom(ctx, room)
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Room created", "house_id", houseID, "room_id", room.ID, "number", number)
	return room, nil
}

// ListRooms returns the rooms of a house ordered by number.
func (m *Manager) ListRooms(ctx context.Context, houseID string) ([]*models.Room, error) {
	if _, err := m.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	return m.store.ListRooms(ctx, houseID)
}

// DeleteRoom removes an unoccupied room. Departed members that once lived
// there lose the stale link through the foreign key.
func (m *Manager) DeleteRoom(ctx context.Context, houseID, roomID string) error {
	err := m.store.InTx(ctx, func(q storage.Queries) error {
		room, err := q.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if room.HouseID != houseID {
			return fmt.Errorf("%w: room %s", models.ErrNotFound, roomID)
		}
		occupant, err := q.FindActiveMemberInRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if occupant != nil {
			return fmt.Errorf("%w: room %d is occupied", models.ErrConflict, room.Number)
		}
		return q.DeleteRoom(ctx, roomID)
	})
	if err != nil {
		return err
	}

	m.logger.Info("Room deleted", "house_id", houseID, "room_id", roomID)
	return nil
}

// activeMemberOf loads a member that is active and belongs to houseID.
// Anything else is NotFound: departed members are not reactivated.
func activeMemberOf(ctx context.Context, q storage.Queries, houseID, memberID string) (*models.Member, error) {
	if _, err := q.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	member, err := q.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.HouseID != houseID || !member.Active() {
		return nil, fmt.Errorf("%w: active member %s", models.ErrNotFound, memberID)
	}
	return member, nil
}

// checkContactFree fails with Conflict when another active member uses
// email or phone. Empty values are skipped.
func checkContactFree(ctx context.Context, q storage.Queries, selfID, email, phone string) error {
	if email != "" {
		other, err := q.FindActiveMemberByEmail(ctx, email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return fmt.Errorf("%w: an active member already uses this email", models.ErrConflict)
		}
	}
	if phone != "" {
		other, err := q.FindActiveMemberByPhone(ctx, phone)
		if err != nil {
			return err
		}
		if other != nil && other.ID != selfID {
			return fmt.Errorf("%w: an active member already uses this phone", models.ErrConflict)
		}
	}
	return nil
}

// checkRoomFree verifies roomID exists, belongs to houseID and has no active
// occupant other than selfID.
func checkRoomFree(ctx context.Context, q storage.Queries, houseID, roomID, selfID string) error {
	room, err := q.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.HouseID != houseID {
		return fmt.Errorf("%w: room %s belongs to another house", models.ErrInvalidRelation, roomID)
	}
	occupant, err := q.FindActiveMemberInRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if occupant != nil && occupant.ID != selfID {
		return fmt.Errorf("%w: room %d is occupied", models.ErrConflict, room.Number)
	}
	return nil
}

// invalidateSummary drops the cached house summary. A cache outage only
// costs a stale read until the TTL expires.
func (m *Manager) invalidateSummary(ctx context.Context, houseID string) {
	err := m.cache.Delete(ctx, cache.HouseSummaryKey(houseID))
	if err != nil && !errors.Is(err, cache.ErrUnavailable) {
		m.logger.Warn("Failed to invalidate house summary", "house_id", houseID, "error", err)
	}
}
