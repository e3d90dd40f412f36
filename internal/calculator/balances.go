package calculator

import "sort"

// ExpenseForSummary is the minimal expense information needed for a house
// summary.
type ExpenseForSummary struct {
	ID          string
	Description string
	Total       float64
	Paid        bool // status is paid
}

// PaymentForSummary is the minimal payment information needed for a house
// summary.
type PaymentForSummary struct {
	MemberID  string
	ExpenseID string
	Amount    float64
}

// MemberForSummary is the minimal member information needed for a house
// summary.
type MemberForSummary struct {
	ID       string
	FullName string
	Active   bool
}

// ExpenseProgress reports how much of one expense has been collected.
type ExpenseProgress struct {
	ExpenseID   string
	Description string
	Total       float64
	Collected   float64
	Outstanding float64 // zero once the expense is paid
	Payments    int
}

// MemberTotal reports everything one member has paid in the house.
type MemberTotal struct {
	MemberID  string
	FullName  string
	Active    bool
	TotalPaid float64
	Payments  int
}

// HouseSummary aggregates collection progress for a house.
type HouseSummary struct {
	Expenses         []ExpenseProgress
	Members          []MemberTotal
	TotalCollected   float64
	TotalOutstanding float64
	ActiveMembers    int
}

// Summarize computes per-expense progress and per-member totals.
//
// Algorithm:
// - Each payment adds to its expense's collected amount and its member's total
// - Outstanding = total - collected for unpaid expenses, never negative
// - Departed members stay in the member list: their payments are history
//
// Payments referencing unknown expenses or members are ignored. Output is
// sorted by expense input order and by member name.
func Summarize(expenses []ExpenseForSummary, payments []PaymentForSummary, members []MemberForSummary) HouseSummary {
	progress := make(map[string]*ExpenseProgress, len(expenses))
	order := make([]string, 0, len(expenses))
	for _, e := range expenses {
		progress[e.ID] = &ExpenseProgress{
			ExpenseID:   e.ID,
			Description: e.Description,
			Total:       e.Total,
		}
		order = append(order, e.ID)
	}

	totals := make(map[string]*MemberTotal, len(members))
	summary := HouseSummary{}
	for _, m := range members {
		totals[m.ID] = &MemberTotal{MemberID: m.ID, FullName: m.FullName, Active: m.Active}
		if m.Active {
			summary.ActiveMembers++
		}
	}

	for _, p := range payments {
		exp, ok := progress[p.ExpenseID]
		if !ok {
			continue
		}
		exp.Collected += p.Amount
		exp.Payments++
		if mt, ok := totals[p.MemberID]; ok {
			mt.TotalPaid += p.Amount
			mt.Payments++
		}
	}

	for _, e := range expenses {
		exp := progress[e.ID]
		if !e.Paid {
			exp.Outstanding = e.Total - exp.Collected
			if exp.Outstanding < 0 {
				exp.Outstanding = 0
			}
		}
		summary.TotalCollected += exp.Collected
		summary.TotalOutstanding += exp.Outstanding
	}

	summary.Expenses = make([]ExpenseProgress, 0, len(order))
	for _, id := range order {
		summary.Expenses = append(summary.Expenses, *progress[id])
	}

	summary.Members = make([]MemberTotal, 0, len(totals))
	for _, mt := range totals {
		summary.Members = append(summary.Members, *mt)
	}
	sort.Slice(summary.Members, func(i, j int) bool {
		if summary.Members[i].FullName != summary.Members[j].FullName {
			return summary.Members[i].FullName < summary.Members[j].FullName
		}
		return summary.Members[i].MemberID < summary.Members[j].MemberID
	})

	return summary
}
