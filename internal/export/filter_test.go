package export

import (
	"testing"

	"farmpilot/internal/core"
)

func tx(id int64, typ core.TransactionType, cents int64, date string, category string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:       id,
		Type:     typ,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Date:     d,
		FarmID:   1,
	}
}

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestFilterDateRange(t *testing.T) {
	transactions := []core.Transaction{
		tx(1, core.Income, 100000, "2024-01-05", "Sale"),
		tx(2, core.Expense, 30000, "2024-01-10", "Fuel"),
		tx(3, core.Income, 50000, "2024-02-15", "Sale"),
		tx(4, core.Expense, 20000, "2023-12-31", "Seed"),
	}
	req := Request{
		StartDate:       mustDate(t, "2024-01-01"),
		EndDate:         mustDate(t, "2024-01-31"),
		IncludeIncome:   true,
		IncludeExpenses: true,
	}

	got := Filter(transactions, req)
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("filter must preserve input order, got ids %d, %d", got[0].ID, got[1].ID)
	}
}

func TestFilterInclusiveBounds(t *testing.T) {
	transactions := []core.Transaction{
		tx(1, core.Income, 100, "2024-01-01", "Sale"),
		tx(2, core.Income, 100, "2024-01-31", "Sale"),
	}
	req := Request{
		StartDate:     mustDate(t, "2024-01-01"),
		EndDate:       mustDate(t, "2024-01-31"),
		IncludeIncome: true,
	}
	if got := Filter(transactions, req); len(got) != 2 {
		t.Errorf("both boundary dates must be included, got %d", len(got))
	}
}

func TestFilterTypeToggles(t *testing.T) {
	transactions := []core.Transaction{
		tx(1, core.Income, 100000, "2024-01-05", "Sale"),
		tx(2, core.Expense, 30000, "2024-01-10", "Fuel"),
	}
	base := Request{
		StartDate: mustDate(t, "2024-01-01"),
		EndDate:   mustDate(t, "2024-01-31"),
	}

	tests := []struct {
		name     string
		income   bool
		expenses bool
		wantIDs  []int64
	}{
		{"both", true, true, []int64{1, 2}},
		{"income only", true, false, []int64{1}},
		{"expenses only", false, true, []int64{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			req.IncludeIncome = tt.income
			req.IncludeExpenses = tt.expenses
			got := Filter(transactions, req)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %d, want %d", i, got[i].ID, id)
				}
			}
		})
	}
}
