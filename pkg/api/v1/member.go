package apiv1

type Room struct {
	ID      string `json:"id"`
	HouseID string `json:"house_id"`
	Number  int    `json:"number"`
}

type CreateRoomRequest struct {
	HouseID string `json:"house_id" validate:"required"`
	Number  int    `json:"number"`
}

type CreateRoomResponse struct {
	Room *Room `json:"room"`
}

type ListRoomsRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}

type ListRoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}

type DeleteRoomRequest struct {
	HouseID string `json:"house_id" validate:"required"`
	RoomID  string `json:"room_id" validate:"required"`
}

type DeleteRoomResponse struct{}

// Member carries the lifecycle state explicitly: Active is false and
// DepartedAt is set once the member has left.
type Member struct {
	ID         string `json:"id"`
	HouseID    string `json:"house_id"`
	RoomID     string `json:"room_id,omitempty"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Active     bool   `json:"active"`
	DepartedAt int64  `json:"departed_at,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type CreateMemberRequest struct {
	HouseID  string `json:"house_id" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=32"`
	RoomID   string `json:"room_id,omitempty"`
}

type CreateMemberResponse struct {
	Member *Member `json:"member"`
}

type GetMemberRequest struct {
	HouseID  string `json:"house_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
}

type GetMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMembersRequest struct {
	HouseID         string `json:"house_id" validate:"required"`
	IncludeInactive bool   `json:"include_inactive"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

// UpdateMemberRequest replaces all writable fields; an empty RoomID moves
// the member out of their room.
type UpdateMemberRequest struct {
	HouseID  string `json:"house_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,max=32"`
	RoomID   string `json:"room_id,omitempty"`
}

type UpdateMemberResponse struct {
	Member *Member `json:"member"`
}

type ReassignRoomRequest struct {
	HouseID  string `json:"house_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
	// RoomID empty clears the room.
	RoomID string `json:"room_id,omitempty"`
}

type ReassignRoomResponse struct {
	Member *Member `json:"member"`
}

type DeactivateMemberRequest struct {
	HouseID  string `json:"house_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
}

type DeactivateMemberResponse struct {
	Member *Member `json:"member"`
}
