// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

// Queries is the set of data operations available both on the store itself
// and inside a transaction.
//
// Conventions:
//   - Get* return an error wrapping models.ErrNotFound when nothing matches.
//   - Find* return nil and no error when nothing matches.
//   - Inserts and updates that would violate a unique constraint return an
//     error wrapping models.ErrConflict. The constraints live in the schema,
//     so concurrent writers cannot both succeed.
type Queries interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Houses
	CreateHouse(ctx context.Context, house *models.House) error
	GetHouse(ctx context.Context, houseID string) (*models.House, error)
	ListHousesByOwner(ctx context.Context, ownerID string) ([]*models.House, error)
	// DeleteHouse removes the house and, by cascade, everything it owns.
	DeleteHouse(ctx context.Context, houseID string) error

	// Rooms
	CreateRoom(ctx context.Context, room *models.Room) error
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context, houseID string) ([]*models.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error

	// Members
	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	FindActiveMemberByEmail(ctx context.Context, email string) (*models.Member, error)
	FindActiveMemberByPhone(ctx context.Context, phone string) (*models.Member, error)
	FindActiveMemberInRoom(ctx context.Context, roomID string) (*models.Member, error)
	ListMembers(ctx context.Context, houseID string, includeInactive bool) ([]*models.Member, error)
	CountActiveMembers(ctx context.Context, houseID string) (int, error)
	// UpdateMember writes contact data and the room link of an active member.
	UpdateMember(ctx context.Context, member *models.Member) error
	// DeactivateMember marks an active member of the house as departed at the
	// given time and clears its room, in a single statement.
	DeactivateMember(ctx context.Context, houseID, memberID string, departedAt int64) error

	// Expenses
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense looks up an expense within a house.
	GetExpense(ctx context.Context, houseID, expenseID string) (*models.Expense, error)
	// GetExpenseForUpdate is GetExpense with a row lock where the backend
	// supports one; use it inside a transaction.
	GetExpenseForUpdate(ctx context.Context, houseID, expenseID string) (*models.Expense, error)
	ListExpenses(ctx context.Context, houseID string) ([]*models.Expense, error)
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	SetExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error
	DeleteExpense(ctx context.Context, expenseID string) error
	// MarkOverdueExpenses moves pending expenses due strictly before the
	// given date to overdue and returns how many changed.
	MarkOverdueExpenses(ctx context.Context, before string) (int64, error)

	// Payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	HasPayment(ctx context.Context, memberID, expenseID string) (bool, error)
	CountPayments(ctx context.Context, expenseID string) (int, error)
	ListPaymentsByExpense(ctx context.Context, expenseID string) ([]*models.Payment, error)
	ListPaymentsByHouse(ctx context.Context, houseID string) ([]*models.Payment, error)
}

// Store defines the interface for República Fácil storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the core or the service layer.
type Store interface {
	Queries

	// InTx runs fn inside a transaction. The transaction commits when fn
	// returns nil and rolls back otherwise; fn's error is returned as is.
	InTx(ctx context.Context, fn func(q Queries) error) error

	// Ping checks the connection to the backend.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
