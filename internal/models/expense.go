package models

import "time"

// DateLayout is the storage and wire format of expense due dates.
const DateLayout = "2006-01-02"

// ExpenseCategory classifies an expense. The set is closed.
type ExpenseCategory string

const (
	CategoryElectricity ExpenseCategory = "electricity"
	CategoryWater       ExpenseCategory = "water"
	CategoryInternet    ExpenseCategory = "internet"
	CategoryGas         ExpenseCategory = "gas"
	CategoryCondoFee    ExpenseCategory = "condo_fee"
	CategoryCleaning    ExpenseCategory = "cleaning"
	CategoryMaintenance ExpenseCategory = "maintenance"
	CategoryOther       ExpenseCategory = "other"
)

// Categories lists every valid expense category.
var Categories = []ExpenseCategory{
	CategoryElectricity,
	CategoryWater,
	CategoryInternet,
	CategoryGas,
	CategoryCondoFee,
	CategoryCleaning,
	CategoryMaintenance,
	CategoryOther,
}

// Valid reports whether c is one of Categories.
func (c ExpenseCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ExpenseStatus is the settlement state of an expense.
type ExpenseStatus string

const (
	StatusPending ExpenseStatus = "pending"
	StatusOverdue ExpenseStatus = "overdue"
	StatusPaid    ExpenseStatus = "paid"
)

// Expense represents a shared cost of a house, divided equally among the
// active members at the time each of them pays.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// HouseID is the house this expense belongs to.
	HouseID string

	Description string

	// Amount is the total cost, always positive.
	Amount float64

	// DueDate is the calendar date the expense is due (UTC midnight).
	DueDate time.Time

	Category ExpenseCategory

	// Status starts as pending and becomes paid once every active member
	// has paid their share.
	Status ExpenseStatus

	CreatedAt int64
	UpdatedAt int64
}

// Settled reports whether the expense no longer accepts payments.
func (e *Expense) Settled() bool {
	return e.Status == StatusPaid
}

// Payment is one member's recorded share of one expense. Payments are the
// durable ledger: they are never updated, and they outlive the member's
// departure.
type Payment struct {
	ID        string
	MemberID  string
	ExpenseID string

	// Amount is the share paid, computed at registration time.
	Amount float64

	// PaidAt is the Unix timestamp of the registration.
	PaidAt int64
}

// ParseDate parses a due date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
