package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
)

const expenseColumns = `id, house_id, description, amount, due_date, category, status, created_at, updated_at`

// CreateExpense persists a new expense. New expenses start as pending.
func (q *queries) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Status == "" {
		expense.Status = models.StatusPending
	}
	expense.UpdatedAt = expense.CreatedAt

	_, err := q.exec(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.HouseID, expense.Description, expense.Amount,
		expense.DueDate.Format(models.DateLayout), string(expense.Category), string(expense.Status),
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return q.insertErr(err, "expense")
	}
	return nil
}

// GetExpense retrieves an expense scoped to its house.
func (q *queries) GetExpense(ctx context.Context, houseID, expenseID string) (*models.Expense, error) {
	return q.getExpense(ctx, houseID, expenseID, "")
}

// GetExpenseForUpdate retrieves an expense and locks its row until the
// surrounding transaction ends.
func (q *queries) GetExpenseForUpdate(ctx context.Context, houseID, expenseID string) (*models.Expense, error) {
	return q.getExpense(ctx, houseID, expenseID, q.dialect.LockClause())
}

func (q *queries) getExpense(ctx context.Context, houseID, expenseID, lock string) (*models.Expense, error) {
	expense, err := scanExpense(q.queryRow(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ? AND house_id = ?`+lock,
		expenseID, houseID,
	))
	if err != nil {
		return nil, notFound(err, "expense", expenseID)
	}
	return expense, nil
}

// ListExpenses retrieves the expenses of a house ordered by due date.
func (q *queries) ListExpenses(ctx context.Context, houseID string) ([]*models.Expense, error) {
	rows, err := q.query(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE house_id = ? ORDER BY due_date, created_at, id`,
		houseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpense writes the editable fields of an expense. Status is left
// alone; it only changes through SetExpenseStatus.
func (q *queries) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()
	res, err := q.exec(ctx,
		`UPDATE expenses SET description = ?, amount = ?, due_date = ?, category = ?, updated_at = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, expense.DueDate.Format(models.DateLayout),
		string(expense.Category), expense.UpdatedAt, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return expectOne(res, "expense", expense.ID)
}

// SetExpenseStatus changes the settlement status of an expense.
func (q *queries) SetExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error {
	res, err := q.exec(ctx,
		`UPDATE expenses SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().Unix(), expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to set expense status: %w", err)
	}
	return expectOne(res, "expense", expenseID)
}

// DeleteExpense removes an expense and, by cascade, its payments.
func (q *queries) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := q.exec(ctx, `DELETE FROM expenses WHERE id = ?`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return expectOne(res, "expense", expenseID)
}

// MarkOverdueExpenses flags pending expenses whose due date is before the
// given date. Dates are stored as YYYY-MM-DD, so text order is date order.
func (q *queries) MarkOverdueExpenses(ctx context.Context, before string) (int64, error) {
	res, err := q.exec(ctx,
		`UPDATE expenses SET status = ?, updated_at = ? WHERE status = ? AND due_date < ?`,
		string(models.StatusOverdue), time.Now().Unix(), string(models.StatusPending), before,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue expenses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n, nil
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var dueDate, category, status string
	if err := row.Scan(&expense.ID, &expense.HouseID, &expense.Description, &expense.Amount,
		&dueDate, &category, &status, &expense.CreatedAt, &expense.UpdatedAt); err != nil {
		return nil, err
	}
	due, err := models.ParseDate(dueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: %w", dueDate, err)
	}
	expense.DueDate = due
	expense.Category = models.ExpenseCategory(category)
	expense.Status = models.ExpenseStatus(status)
	return expense, nil
}
