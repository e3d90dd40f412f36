package apiv1

type Expense struct {
	ID          string  `json:"id"`
	HouseID     string  `json:"house_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	// DueDate is formatted YYYY-MM-DD.
	DueDate   string `json:"due_date"`
	Category  string `json:"category"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type Payment struct {
	ID        string  `json:"id"`
	MemberID  string  `json:"member_id"`
	ExpenseID string  `json:"expense_id"`
	Amount    float64 `json:"amount"`
	PaidAt    int64   `json:"paid_at"`
}

// ExpenseFields are shared by create and update requests. Amount and
// category are checked by the server after the house is resolved.
type ExpenseFields struct {
	Description string  `json:"description" validate:"required,max=500"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Category    string  `json:"category" validate:"required"`
}

type CreateExpenseRequest struct {
	HouseID string `json:"house_id" validate:"required"`
	ExpenseFields
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	HouseID   string `json:"house_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	HouseID string `json:"house_id" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	HouseID   string `json:"house_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
	ExpenseFields
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	HouseID   string `json:"house_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
}

type DeleteExpenseResponse struct{}

type RegisterPaymentRequest struct {
	HouseID   string `json:"house_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
	MemberID  string `json:"member_id" validate:"required"`
}

type RegisterPaymentResponse struct {
	Payment *Payment `json:"payment"`
	Expense *Expense `json:"expense"`
	// Settled is true when this payment completed the expense.
	Settled bool `json:"settled"`
}

type ListPaymentsRequest struct {
	HouseID   string `json:"house_id" validate:"required"`
	ExpenseID string `json:"expense_id" validate:"required"`
}

type ListPaymentsResponse struct {
	Payments []*Payment `json:"payments"`
}
