package apiv1

type House struct {
	ID         string `json:"id"`
	OwnerID    string `json:"owner_id"`
	Name       string `json:"name"`
	PostalCode string `json:"postal_code"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	Complement string `json:"complement,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

type CreateHouseRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Street     string `json:"street" validate:"required"`
	Number     string `json:"number" validate:"required"`
	District   string `json:"district" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required,max=50"`
	Complement string `json:"complement"`
}

type CreateHouseResponse struct {
	House *House `json:"house"`
}

type GetHouseRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}

type GetHouseResponse struct {
	House *House `json:"house"`
}

type ListHousesRequest struct{}

type ListHousesResponse struct {
	Houses []*House `json:"houses"`
}

type DeleteHouseRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}

type DeleteHouseResponse struct{}

type ExpenseProgress struct {
	ExpenseID   string  `json:"expense_id"`
	Description string  `json:"description"`
	Total       float64 `json:"total"`
	Collected   float64 `json:"collected"`
	Outstanding float64 `json:"outstanding"`
	Payments    int     `json:"payments"`
}

type MemberTotal struct {
	MemberID  string  `json:"member_id"`
	FullName  string  `json:"full_name"`
	Active    bool    `json:"active"`
	TotalPaid float64 `json:"total_paid"`
	Payments  int     `json:"payments"`
}

type HouseSummary struct {
	Expenses         []*ExpenseProgress `json:"expenses"`
	Members          []*MemberTotal     `json:"members"`
	TotalCollected   float64            `json:"total_collected"`
	TotalOutstanding float64            `json:"total_outstanding"`
	ActiveMembers    int                `json:"active_members"`
}

type GetHouseSummaryRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}

type GetHouseSummaryResponse struct {
	Summary *HouseSummary `json:"summary"`
}
