package service

import (
	"github.com/Republica-Facil/republica-facil-backend/internal/calculator"
	"github.com/Republica-Facil/republica-facil-backend/internal/models"
	apiv1 "github.com/Republica-Facil/republica-facil-backend/pkg/api/v1"
)

func userToAPI(u *models.User) *apiv1.User {
	return &apiv1.User{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func houseToAPI(h *models.House) *apiv1.House {
	return &apiv1.House{
		ID:         h.ID,
		OwnerID:    h.OwnerID,
		Name:       h.Name,
		PostalCode: h.PostalCode,
		Street:     h.Street,
		Number:     h.Number,
		District:   h.District,
		City:       h.City,
		State:      h.State,
		Complement: h.Complement,
		CreatedAt:  h.CreatedAt,
	}
}

func roomToAPI(r *models.Room) *apiv1.Room {
	return &apiv1.Room{ID: r.ID, HouseID: r.HouseID, Number: r.Number}
}

func memberToAPI(m *models.Member) *apiv1.Member {
	return &apiv1.Member{
		ID:         m.ID,
		HouseID:    m.HouseID,
		RoomID:     m.RoomID,
		FullName:   m.FullName,
		Email:      m.Email,
		Phone:      m.Phone,
		Active:     m.Active(),
		DepartedAt: m.DepartedAt,
		CreatedAt:  m.CreatedAt,
	}
}

func expenseToAPI(e *models.Expense) *apiv1.Expense {
	return &apiv1.Expense{
		ID:          e.ID,
		HouseID:     e.HouseID,
		Description: e.Description,
		Amount:      e.Amount,
		DueDate:     e.DueDate.Format(models.DateLayout),
		Category:    string(e.Category),
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}
}

func paymentToAPI(p *models.Payment) *apiv1.Payment {
	return &apiv1.Payment{
		ID:        p.ID,
		MemberID:  p.MemberID,
		ExpenseID: p.ExpenseID,
		Amount:    p.Amount,
		PaidAt:    p.PaidAt,
	}
}

func summaryToAPI(s *calculator.HouseSummary) *apiv1.HouseSummary {
	out := &apiv1.HouseSummary{
		Expenses:         make([]*apiv1.ExpenseProgress, len(s.Expenses)),
		Members:          make([]*apiv1.MemberTotal, len(s.Members)),
		TotalCollected:   s.TotalCollected,
		TotalOutstanding: s.TotalOutstanding,
		ActiveMembers:    s.ActiveMembers,
	}
	for i, e := range s.Expenses {
		out.Expenses[i] = &apiv1.ExpenseProgress{
			ExpenseID:   e.ExpenseID,
			Description: e.Description,
			Total:       e.Total,
			Collected:   e.Collected,
			Outstanding: e.Outstanding,
			Payments:    e.Payments,
		}
	}
	for i, m := range s.Members {
		out.Members[i] = &apiv1.MemberTotal{
			MemberID:  m.MemberID,
			FullName:  m.FullName,
			Active:    m.Active,
			TotalPaid: m.TotalPaid,
			Payments:  m.Payments,
		}
	}
	return out
}

func mapSlice[T, U any](in []T, f func(T) U) []U {
	out := make([]U, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
