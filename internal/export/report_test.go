package export

import (
	"context"
	"strings"
	"testing"

	"farmpilot/internal/core"
)

func TestExportReport(t *testing.T) {
	transactions := []core.Transaction{
		tx(1, core.Income, 100000, "2024-01-05", "Sale"),
		tx(2, core.Expense, 30000, "2024-01-10", "Fuel"),
		tx(3, core.Expense, 123450, "2024-02-20", "Equipment"),
	}
	farms := []core.Farm{{ID: 1, Name: "Green Acres"}}
	req := Request{
		StartDate:       mustDate(t, "2024-01-01"),
		EndDate:         mustDate(t, "2024-02-29"),
		Format:          FormatPDF,
		IncludeIncome:   true,
		IncludeExpenses: true,
	}

	a, err := NewServiceWithClock(fixedClock()).Export(context.Background(), transactions, farms, req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if a.Disposition != Preview {
		t.Error("report artifact must target the preview surface")
	}
	if a.Filename != "" {
		t.Errorf("preview artifact carries no filename, got %q", a.Filename)
	}

	html := string(a.Content)

	// Summary cards.
	for _, want := range []string{"$1,000.00", "$1,534.50", "-$534.50"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing amount %q", want)
		}
	}
	if !strings.Contains(html, `class="amount loss"`) {
		t.Error("negative net must use the loss class")
	}

	// Months most-recent-first.
	feb := strings.Index(html, "February 2024")
	jan := strings.Index(html, "January 2024")
	if feb == -1 || jan == -1 || feb > jan {
		t.Error("months must render most-recent-first")
	}
	if !strings.Contains(html, "February 2024 - 1 transactions") {
		t.Error("month header must carry transaction count")
	}

	// Signed amounts and empty-description placeholder.
	if !strings.Contains(html, "+$1,000.00") || !strings.Contains(html, "-$300.00") {
		t.Error("row amounts must be signed by type")
	}
	if !strings.Contains(html, "<td>-</td>") {
		t.Error("empty description must render as placeholder")
	}

	// Period and footer.
	if !strings.Contains(html, "Period: Jan 01, 2024 - Feb 29, 2024") {
		t.Error("report must state the period")
	}
	if !strings.Contains(html, "3 transactions across 1 farms") {
		t.Error("footer must state transaction and farm counts")
	}
}

func TestExportReportProfitClass(t *testing.T) {
	transactions := []core.Transaction{
		tx(1, core.Income, 100000, "2024-01-05", "Sale"),
	}
	req := Request{
		StartDate:     mustDate(t, "2024-01-01"),
		EndDate:       mustDate(t, "2024-01-31"),
		Format:        FormatPDF,
		IncludeIncome: true,
	}
	a, err := NewServiceWithClock(fixedClock()).Export(context.Background(), transactions, nil, req)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.Contains(string(a.Content), `class="amount profit"`) {
		t.Error("positive net must use the profit class")
	}
	if !strings.Contains(string(a.Content), "Unknown Farm") {
		t.Error("missing farm must fall back to the placeholder label")
	}
}
