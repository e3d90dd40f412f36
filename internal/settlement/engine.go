// Package settlement records shared expenses and the per-member payments
// that settle them.
//
// Each member pays an equal share: the expense total divided by the number
// of active members at the moment they pay. An expense becomes paid once
// the number of payments reaches the active member count.
package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Republica-Facil/republica-facil-backend/internal/cache"
	"github.com/Republica-Facil/republica-facil-backend/internal/calculator"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/observability/metrics"
	"github.com/Republica-Facil/republica-facil-backend/internal/storage"
)

const tracerName = "github.com/Republica-Facil/republica-facil-backend/internal/settlement"

// DefaultSummaryTTL bounds how stale a cached house summary can be when an
// invalidation is lost.
const DefaultSummaryTTL = 5 * time.Minute

// Engine implements expense and payment operations.
type Engine struct {
	store      storage.Store
	cache      cache.Cache
	summaryTTL time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewEngine creates an Engine. c may be cache.Unavailable{}; a non-positive
// summaryTTL selects DefaultSummaryTTL.
func NewEngine(store storage.Store, c cache.Cache, summaryTTL time.Duration, logger *slog.Logger) *Engine {
	if summaryTTL <= 0 {
		summaryTTL = DefaultSummaryTTL
	}
	return &Engine{
		store:      store,
		cache:      c,
		summaryTTL: summaryTTL,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

// ExpenseInput holds the writable fields of an expense.
type ExpenseInput struct {
	Description string
	Amount      float64
	DueDate     time.Time
	Category    models.ExpenseCategory
}

func (in ExpenseInput) validate() (ExpenseInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	switch {
	case in.Description == "":
		return in, fmt.Errorf("%w: description is required", models.ErrInvalidArgument)
	case !(in.Amount > 0):
		return in, fmt.Errorf("%w: amount must be positive", models.ErrInvalidArgument)
	case in.DueDate.IsZero():
		return in, fmt.Errorf("%w: due date is required", models.ErrInvalidArgument)
	case !in.Category.Valid():
		return in, fmt.Errorf("%w: unknown category %q", models.ErrInvalidArgument, in.Category)
	}
	y, m, d := in.DueDate.Date()
	in.DueDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return in, nil
}

// CreateExpense records a pending expense for a house.
func (e *Engine) CreateExpense(ctx context.Context, houseID string, in ExpenseInput) (*models.Expense, error) {
	var expense *models.Expense
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		valid, err := in.validate()
		if err != nil {
			return err
		}
		expense = &models.Expense{
			HouseID:     houseID,
			Description: valid.Description,
			Amount:      valid.Amount,
			DueDate:     valid.DueDate,
			Category:    valid.Category,
			Status:      models.StatusPending,
			CreatedAt:   e.now().Unix(),
		}
		return q.CreateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	e.invalidateSummary(ctx, houseID)
	e.logger.Info("Expense created",
		"house_id", houseID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category", expense.Category,
	)
	return expense, nil
}

// Receipt is the outcome of a registered payment.
type Receipt struct {
	Payment *models.Payment
	// Expense reflects the status after this payment.
	Expense *models.Expense
	// ActiveMembers is the divisor used for the share.
	ActiveMembers int
	// Settled is true when this payment moved the expense to paid.
	Settled bool
}

// RegisterPayment records that memberID paid their share of expenseID.
//
// Checks run in a fixed order so callers get a stable error kind:
// house (NotFound), expense in house (NotFound), not already paid
// (Conflict), member exists and is active (NotFound), member in house
// (InvalidRelation), no previous payment (Conflict), at least one active
// member (InvalidState). The insert and the status change commit together.
func (e *Engine) RegisterPayment(ctx context.Context, houseID, expenseID, memberID string) (_ *Receipt, err error) {
	ctx, span := e.tracer.Start(ctx, "settlement.RegisterPayment", trace.WithAttributes(
		attribute.String("house_id", houseID),
		attribute.String("expense_id", expenseID),
		attribute.String("member_id", memberID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	receipt := &Receipt{}
	err = e.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}

		expense, err := q.GetExpenseForUpdate(ctx, houseID, expenseID)
		if err != nil {
			return err
		}
		if expense.Settled() {
			return fmt.Errorf("%w: expense %s is already paid", models.ErrConflict, expenseID)
		}

		member, err := q.GetMember(ctx, memberID)
		if err != nil {
			return err
		}
		if !member.Active() {
			return fmt.Errorf("%w: active member %s", models.ErrNotFound, memberID)
		}
		if member.HouseID != houseID {
			return fmt.Errorf("%w: member %s belongs to another house", models.ErrInvalidRelation, memberID)
		}

		paid, err := q.HasPayment(ctx, memberID, expenseID)
		if err != nil {
			return err
		}
		if paid {
			return fmt.Errorf("%w: member %s already paid expense %s", models.ErrConflict, memberID, expenseID)
		}

		active, err := q.CountActiveMembers(ctx, houseID)
		if err != nil {
			return err
		}
		share, err := calculator.EqualShare(expense.Amount, active)
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidState, err)
		}

		payment := &models.Payment{
			MemberID:  memberID,
			ExpenseID: expenseID,
			Amount:    share,
			PaidAt:    e.now().Unix(),
		}
		if err := q.CreatePayment(ctx, payment); err != nil {
			return err
		}

		count, err := q.CountPayments(ctx, expenseID)
		if err != nil {
			return err
		}
		if calculator.IsSettled(count, active) {
			if err := q.SetExpenseStatus(ctx, expenseID, models.StatusPaid); err != nil {
				return err
			}
			expense.Status = models.StatusPaid
			receipt.Settled = true
		}

		receipt.Payment = payment
		receipt.Expense = expense
		receipt.ActiveMembers = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Bool("settled", receipt.Settled))
	metrics.IncPaymentsRegistered()
	if receipt.Settled {
		metrics.IncExpensesSettled()
	}
	e.invalidateSummary(ctx, houseID)

	e.logger.Info("Payment registered",
		"house_id", houseID,
		"expense_id", expenseID,
		"member_id", memberID,
		"share", receipt.Payment.Amount,
		"active_members", receipt.ActiveMembers,
		"settled", receipt.Settled,
	)
	return receipt, nil
}

// ListPayments returns every payment recorded for an expense, including
// those of members who have since departed.
func (e *Engine) ListPayments(ctx context.Context, houseID, expenseID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		if _, err := q.GetExpense(ctx, houseID, expenseID); err != nil {
			return err
		}
		var err error
		payments, err = q.ListPaymentsByExpense(ctx, expenseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// ListExpenses returns the expenses of a house ordered by due date.
func (e *Engine) ListExpenses(ctx context.Context, houseID string) ([]*models.Expense, error) {
	if _, err := e.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	return e.store.ListExpenses(ctx, houseID)
}

// GetExpense returns one expense of a house.
func (e *Engine) GetExpense(ctx context.Context, houseID, expenseID string) (*models.Expense, error) {
	if _, err := e.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}
	return e.store.GetExpense(ctx, houseID, expenseID)
}

// UpdateExpense rewrites an expense's editable fields. A paid expense is
// frozen, and once payments exist the amount can no longer change because
// the recorded shares were computed from it.
func (e *Engine) UpdateExpense(ctx context.Context, houseID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	var expense *models.Expense
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		var err error
		expense, err = q.GetExpenseForUpdate(ctx, houseID, expenseID)
		if err != nil {
			return err
		}
		valid, err := in.validate()
		if err != nil {
			return err
		}
		if expense.Settled() {
			return fmt.Errorf("%w: expense %s is already paid", models.ErrConflict, expenseID)
		}
		if valid.Amount != expense.Amount {
			n, err := q.CountPayments(ctx, expenseID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: amount cannot change after %d payment(s)", models.ErrConflict, n)
			}
		}

		expense.Description = valid.Description
		expense.Amount = valid.Amount
		expense.DueDate = valid.DueDate
		expense.Category = valid.Category
		return q.UpdateExpense(ctx, expense)
	})
	if err != nil {
		return nil, err
	}

	e.invalidateSummary(ctx, houseID)
	e.logger.Info("Expense updated", "house_id", houseID, "expense_id", expenseID)
	return expense, nil
}

// DeleteExpense removes an expense together with its payments.
func (e *Engine) DeleteExpense(ctx context.Context, houseID, expenseID string) error {
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetHouse(ctx, houseID); err != nil {
			return err
		}
		if _, err := q.GetExpense(ctx, houseID, expenseID); err != nil {
			return err
		}
		return q.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		return err
	}

	e.invalidateSummary(ctx, houseID)
	e.logger.Info("Expense deleted", "house_id", houseID, "expense_id", expenseID)
	return nil
}

// MarkOverdue moves pending expenses due before now's calendar date (UTC)
// to overdue. Overdue expenses keep accepting payments.
func (e *Engine) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	n, err := e.store.MarkOverdueExpenses(ctx, now.UTC().Format(models.DateLayout))
	if err != nil {
		return 0, err
	}
	metrics.AddExpensesOverdue(n)
	if n > 0 {
		e.logger.Info("Expenses marked overdue", "count", n)
	}
	return n, nil
}

// HouseSummary returns collection progress for a house. Results are cached
// until the next write to the house or until the TTL expires.
func (e *Engine) HouseSummary(ctx context.Context, houseID string) (*calculator.HouseSummary, error) {
	if _, err := e.store.GetHouse(ctx, houseID); err != nil {
		return nil, err
	}

	key := cache.HouseSummaryKey(houseID)
	if summary, ok := e.cachedSummary(ctx, key); ok {
		return summary, nil
	}

	var summary calculator.HouseSummary
	err := e.store.InTx(ctx, func(q storage.Queries) error {
		expenses, err := q.ListExpenses(ctx, houseID)
		if err != nil {
			return err
		}
		payments, err := q.ListPaymentsByHouse(ctx, houseID)
		if err != nil {
			return err
		}
		members, err := q.ListMembers(ctx, houseID, true)
		if err != nil {
			return err
		}
		summary = calculator.Summarize(summaryExpenses(expenses), summaryPayments(payments), summaryMembers(members))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := e.cache.Set(ctx, key, data, e.summaryTTL); err != nil && !errors.Is(err, cache.ErrUnavailable) {
			e.logger.Warn("Failed to cache house summary", "house_id", houseID, "error", err)
		}
	}
	return &summary, nil
}

func (e *Engine) cachedSummary(ctx context.Context, key string) (*calculator.HouseSummary, bool) {
	data, err := e.cache.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrUnavailable):
		metrics.ObserveSummaryCache("unavailable")
		return nil, false
	case err != nil:
		metrics.ObserveSummaryCache("miss")
		return nil, false
	}

	var summary calculator.HouseSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		e.logger.Warn("Discarding unreadable cached summary", "key", key, "error", err)
		metrics.ObserveSummaryCache("miss")
		return nil, false
	}
	metrics.ObserveSummaryCache("hit")
	return &summary, true
}

func (e *Engine) invalidateSummary(ctx context.Context, houseID string) {
	err := e.cache.Delete(ctx, cache.HouseSummaryKey(houseID))
	if err != nil && !errors.Is(err, cache.ErrUnavailable) {
		e.logger.Warn("Failed to invalidate house summary", "house_id", houseID, "error", err)
	}
}

func summaryExpenses(expenses []*models.Expense) []calculator.ExpenseForSummary {
	out := make([]calculator.ExpenseForSummary, len(expenses))
	for i, exp := range expenses {
		out[i] = calculator.ExpenseForSummary{
			ID:          exp.ID,
			Description: exp.Description,
			Total:       exp.Amount,
			Paid:        exp.Settled(),
		}
	}
	return out
}

func summaryPayments(payments []*models.Payment) []calculator.PaymentForSummary {
	out := make([]calculator.PaymentForSummary, len(payments))
	for i, p := range payments {
		out[i] = calculator.PaymentForSummary{MemberID: p.MemberID, ExpenseID: p.ExpenseID, Amount: p.Amount}
	}
	return out
}

func summaryMembers(members []*models.Member) []calculator.MemberForSummary {
	out := make([]calculator.MemberForSummary, len(members))
	for i, m := range members {
		out[i] = calculator.MemberForSummary{ID: m.ID, FullName: m.FullName, Active: m.Active()}
	}
	return out
}
