package calculator

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	expenses := []ExpenseForSummary{
		{ID: "e1", Description: "Electricity", Total: 200.0, Paid: true},
		{ID: "e2", Description: "Internet", Total: 90.0},
	}
	members := []MemberForSummary{
		{ID: "m1", FullName: "Bob", Active: true},
		{ID: "m2", FullName: "Alice", Active: true},
		{ID: "m3", FullName: "Carol", Active: false},
	}
	payments := []PaymentForSummary{
		{MemberID: "m1", ExpenseID: "e1", Amount: 100.0},
		{MemberID: "m3", ExpenseID: "e1", Amount: 100.0},
		{MemberID: "m2", ExpenseID: "e2", Amount: 45.0},
		{MemberID: "m2", ExpenseID: "unknown", Amount: 10.0},
	}

	summary := Summarize(expenses, payments, members)

	if summary.ActiveMembers != 2 {
		t.Errorf("ActiveMembers = %d, want 2", summary.ActiveMembers)
	}
	if len(summary.Expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(summary.Expenses))
	}

	e1 := summary.Expenses[0]
	if e1.ExpenseID != "e1" || math.Abs(e1.Collected-200.0) > 0.01 || e1.Outstanding != 0 || e1.Payments != 2 {
		t.Errorf("unexpected progress for e1: %+v", e1)
	}
	e2 := summary.Expenses[1]
	if math.Abs(e2.Collected-45.0) > 0.01 || math.Abs(e2.Outstanding-45.0) > 0.01 {
		t.Errorf("unexpected progress for e2: %+v", e2)
	}

	if math.Abs(summary.TotalCollected-245.0) > 0.01 {
		t.Errorf("TotalCollected = %v, want 245", summary.TotalCollected)
	}
	if math.Abs(summary.TotalOutstanding-45.0) > 0.01 {
		t.Errorf("TotalOutstanding = %v, want 45", summary.TotalOutstanding)
	}

	// Members sorted by name; the departed member keeps their history.
	wantOrder := []string{"Alice", "Bob", "Carol"}
	for i, name := range wantOrder {
		if summary.Members[i].FullName != name {
			t.Errorf("member %d = %s, want %s", i, summary.Members[i].FullName, name)
		}
	}
	carol := summary.Members[2]
	if carol.Active || math.Abs(carol.TotalPaid-100.0) > 0.01 || carol.Payments != 1 {
		t.Errorf("unexpected totals for departed member: %+v", carol)
	}
	alice := summary.Members[0]
	if math.Abs(alice.TotalPaid-45.0) > 0.01 {
		t.Errorf("payments to unknown expenses must be ignored, got %+v", alice)
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil, nil, nil)
	if len(summary.Expenses) != 0 || len(summary.Members) != 0 {
		t.Errorf("expected empty summary, got %+v", summary)
	}
	if summary.TotalOutstanding != 0 || summary.ActiveMembers != 0 {
		t.Errorf("expected zero totals, got %+v", summary)
	}
}
