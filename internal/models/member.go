package models

// MemberState is the lifecycle state of a member.
type MemberState string

const (
	// MemberActive members take part in expense splitting and may hold a room.
	MemberActive MemberState = "active"
	// MemberDeparted members are kept for history only.
	MemberDeparted MemberState = "departed"
)

// Member represents a person associated with a house, independent of any
// login account.
//
// A member is either active or departed. Departure is recorded by setting
// DepartedAt; a departed member never holds a room and its contact data may
// be reused by new members. Members are never hard-deleted because payments
// reference them.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// HouseID is the house this member belongs to.
	HouseID string

	// RoomID is the room the member occupies, empty when none.
	RoomID string

	FullName string
	Email    string
	Phone    string

	// CreatedAt is the Unix timestamp when the member joined.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64

	// DepartedAt is the Unix timestamp when the member left the house.
	// Zero while the member is active.
	DepartedAt int64
}

// State returns the lifecycle state derived from DepartedAt.
func (m *Member) State() MemberState {
	if m.DepartedAt != 0 {
		return MemberDeparted
	}
	return MemberActive
}

// Active reports whether the member is still living in the house.
func (m *Member) Active() bool {
	return m.State() == MemberActive
}

// HasRoom reports whether the member currently occupies a room.
func (m *Member) HasRoom() bool {
	return m.RoomID != ""
}
