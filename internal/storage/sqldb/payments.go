package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

// CreatePayment persists a new payment. The (member_id, expense_id) unique
// constraint turns a second payment by the same member into a conflict.
func (q *queries) CreatePayment(ctx context.Context, payment *models.Payment) error {
	// Generate ID if not set
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if payment.PaidAt == 0 {
		payment.PaidAt = time.Now().Unix()
	}

	_, err := q.exec(ctx,
		`INSERT INTO payments (id, member_id, expense_id, amount, paid_at)
		 VALUES (?, ?, ?, ?, ?)`,
		payment.ID, payment.MemberID, payment.ExpenseID, payment.Amount, payment.PaidAt,
	)
	if err != nil {
		return q.insertErr(err, "payment for this member and expense")
	}

	return nil
}

// HasPayment reports whether the member already paid the expense.
func (q *queries) HasPayment(ctx context.Context, memberID, expenseID string) (bool, error) {
	var n int
	err := q.queryRow(ctx,
		`SELECT COUNT(*) FROM payments WHERE member_id = ? AND expense_id = ?`,
		memberID, expenseID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}
	return n > 0, nil
}

// CountPayments counts the payments recorded for an expense.
func (q *queries) CountPayments(ctx context.Context, expenseID string) (int, error) {
	var n int
	err := q.queryRow(ctx,
		`SELECT COUNT(*) FROM payments WHERE expense_id = ?`, expenseID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return n, nil
}

// ListPaymentsByExpense retrieves all payments for an expense, oldest first.
func (q *queries) ListPaymentsByExpense(ctx context.Context, expenseID string) ([]*models.Payment, error) {
	rows, err := q.query(ctx,
		`SELECT id, member_id, expense_id, amount, paid_at
		 FROM payments WHERE expense_id = ? ORDER BY paid_at, id`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by expense: %w", err)
	}
	return scanPayments(rows)
}

// ListPaymentsByHouse retrieves every payment made against the expenses of
// a house.
func (q *queries) ListPaymentsByHouse(ctx context.Context, houseID string) ([]*models.Payment, error) {
	rows, err := q.query(ctx,
		`SELECT p.id, p.member_id, p.expense_id, p.amount, p.paid_at
		 FROM payments p JOIN expenses e ON e.id = p.expense_id
		 WHERE e.house_id = ? ORDER BY p.paid_at, p.id`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by house: %w", err)
	}
	return scanPayments(rows)
}

func scanPayments(rows *sql.Rows) ([]*models.Payment, error) {
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.MemberID, &payment.ExpenseID,
			&payment.Amount, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, payment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}
