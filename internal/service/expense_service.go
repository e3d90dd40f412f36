package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	"github.com/Republica-Facil/republica-facil-backend/internal/settlement"
	apiv1 "github.com/Republica-Facil/republica-facil-backend/pkg/api/v1"
)

// ExpenseService exposes expenses and the payments that settle them.
type ExpenseService struct {
	houses HouseLookup
	engine *settlement.Engine
	logger *slog.Logger
}

func NewExpenseService(houses HouseLookup, engine *settlement.Engine, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{houses: houses, engine: engine, logger: logger}
}

// Handler mounts the service. opts must authenticate the caller.
func (s *ExpenseService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{apiv1.WithJSON()}, opts...)

	mux := http.NewServeMux()
	mux.Handle(apiv1.ExpenseServiceCreateExpenseProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceCreateExpenseProcedure, s.CreateExpense, opts...))
	mux.Handle(apiv1.ExpenseServiceGetExpenseProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceGetExpenseProcedure, s.GetExpense, opts...))
	mux.Handle(apiv1.ExpenseServiceListExpensesProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceListExpensesProcedure, s.ListExpenses, opts...))
	mux.Handle(apiv1.ExpenseServiceUpdateExpenseProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceUpdateExpenseProcedure, s.UpdateExpense, opts...))
	mux.Handle(apiv1.ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceDeleteExpenseProcedure, s.DeleteExpense, opts...))
	mux.Handle(apiv1.ExpenseServiceRegisterPaymentProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceRegisterPaymentProcedure, s.RegisterPayment, opts...))
	mux.Handle(apiv1.ExpenseServiceListPaymentsProcedure, connect.NewUnaryHandler(
		apiv1.ExpenseServiceListPaymentsProcedure, s.ListPayments, opts...))
	return "/" + apiv1.ExpenseServiceName + "/", mux
}

// expenseInput converts wire fields. The date format was already checked
// by the validator.
func expenseInput(f apiv1.ExpenseFields) settlement.ExpenseInput {
	due, _ := time.Parse(models.DateLayout, f.DueDate)
	return settlement.ExpenseInput{
		Description: f.Description,
		Amount:      f.Amount,
		DueDate:     due,
		Category:    models.ExpenseCategory(f.Category),
	}
}

// CreateExpense records a new pending expense for a house.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[apiv1.CreateExpenseRequest]) (*connect.Response[apiv1.CreateExpenseResponse], error) {
	s.logger.Info("CreateExpense request", "house_id", req.Msg.HouseID, "amount", req.Msg.Amount)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "CreateExpense", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "CreateExpense", err)
	}

	expense, err := s.engine.CreateExpense(ctx, req.Msg.HouseID, expenseInput(req.Msg.ExpenseFields))
	if err != nil {
		return nil, toConnectError(s.logger, "CreateExpense", err)
	}
	return connect.NewResponse(&apiv1.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[apiv1.GetExpenseRequest]) (*connect.Response[apiv1.GetExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "GetExpense", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "GetExpense", err)
	}

	expense, err := s.engine.GetExpense(ctx, req.Msg.HouseID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(s.logger, "GetExpense", err)
	}
	return connect.NewResponse(&apiv1.GetExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[apiv1.ListExpensesRequest]) (*connect.Response[apiv1.ListExpensesResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "ListExpenses", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "ListExpenses", err)
	}

	expenses, err := s.engine.ListExpenses(ctx, req.Msg.HouseID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListExpenses", err)
	}
	return connect.NewResponse(&apiv1.ListExpensesResponse{Expenses: mapSlice(expenses, expenseToAPI)}), nil
}

func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[apiv1.UpdateExpenseRequest]) (*connect.Response[apiv1.UpdateExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "UpdateExpense", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "UpdateExpense", err)
	}

	expense, err := s.engine.UpdateExpense(ctx, req.Msg.HouseID, req.Msg.ExpenseID, expenseInput(req.Msg.ExpenseFields))
	if err != nil {
		return nil, toConnectError(s.logger, "UpdateExpense", err)
	}
	return connect.NewResponse(&apiv1.UpdateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[apiv1.DeleteExpenseRequest]) (*connect.Response[apiv1.DeleteExpenseResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "DeleteExpense", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "DeleteExpense", err)
	}

	if err := s.engine.DeleteExpense(ctx, req.Msg.HouseID, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(s.logger, "DeleteExpense", err)
	}
	return connect.NewResponse(&apiv1.DeleteExpenseResponse{}), nil
}

// RegisterPayment records a member's equal share of an expense.
func (s *ExpenseService) RegisterPayment(ctx context.Context, req *connect.Request[apiv1.RegisterPaymentRequest]) (*connect.Response[apiv1.RegisterPaymentResponse], error) {
	s.logger.Info("RegisterPayment request",
		"house_id", req.Msg.HouseID,
		"expense_id", req.Msg.ExpenseID,
		"member_id", req.Msg.MemberID,
	)

	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "RegisterPayment", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "RegisterPayment", err)
	}

	receipt, err := s.engine.RegisterPayment(ctx, req.Msg.HouseID, req.Msg.ExpenseID, req.Msg.MemberID)
	if err != nil {
		return nil, toConnectError(s.logger, "RegisterPayment", err)
	}

	return connect.NewResponse(&apiv1.RegisterPaymentResponse{
		Payment: paymentToAPI(receipt.Payment),
		Expense: expenseToAPI(receipt.Expense),
		Settled: receipt.Settled,
	}), nil
}

func (s *ExpenseService) ListPayments(ctx context.Context, req *connect.Request[apiv1.ListPaymentsRequest]) (*connect.Response[apiv1.ListPaymentsResponse], error) {
	if err := validateRequest(req.Msg); err != nil {
		return nil, toConnectError(s.logger, "ListPayments", err)
	}
	if _, err := authorizeHouse(ctx, s.houses, req.Msg.HouseID); err != nil {
		return nil, toConnectError(s.logger, "ListPayments", err)
	}

	payments, err := s.engine.ListPayments(ctx, req.Msg.HouseID, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError(s.logger, "ListPayments", err)
	}
	return connect.NewResponse(&apiv1.ListPaymentsResponse{Payments: mapSlice(payments, paymentToAPI)}), nil
}
