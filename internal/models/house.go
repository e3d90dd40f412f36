package models

// House represents a república. It is the scope that owns rooms, members
// and expenses; deleting it cascades to all of them.
type House struct {
	// ID is the unique identifier for the house (UUID format).
	ID string

	// OwnerID is the user who created and manages the house.
	OwnerID string

	// Name is the display name of the house.
	Name string

	// Address fields.
	PostalCode string
	Street     string
	Number     string
	District   string
	City       string
	State      string
	Complement string

	// CreatedAt is the Unix timestamp when the house was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last change.
	UpdatedAt int64
}

// OwnedBy reports whether userID manages the house.
func (h *House) OwnedBy(userID string) bool {
	return userID != "" && h.OwnerID == userID
}

// Room is a sub-unit of a house. Number is unique within the house.
type Room struct {
	ID        string
	HouseID   string
	Number    int
	CreatedAt int64
	UpdatedAt int64
}
