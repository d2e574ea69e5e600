package google

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"farmpilot/internal/core"
)

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	oldID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	defer os.Setenv("GOOGLE_SPREADSHEET_ID", oldID)
	os.Unsetenv("GOOGLE_SPREADSHEET_ID")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewSheetsService_MissingCredentials(t *testing.T) {
	oldVars := map[string]string{
		"GOOGLE_SERVICE_ACCOUNT_JSON":    os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		"GOOGLE_SERVICE_ACCOUNT_FILE":    os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		"GOOGLE_APPLICATION_CREDENTIALS": os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
	defer func() {
		for k, v := range oldVars {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()
	for k := range oldVars {
		os.Unsetenv(k)
	}

	_, err := newSheetsService(context.Background())
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	if !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAppendTransactionValidates(t *testing.T) {
	c := &Client{spreadsheetID: "test"} // svc is nil

	invalid := core.Transaction{
		Type:     "refund",
		Category: "Fuel",
		Amount:   core.Money{Cents: 100},
		Date:     core.NewDate(2024, 1, 5),
	}
	_, err := c.AppendTransaction(context.Background(), invalid, "Green Acres")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, core.ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got: %v", err)
	}

	valid := invalid
	valid.Type = core.Expense
	valid.FarmID = 1
	_, err = c.AppendTransaction(context.Background(), valid, "Green Acres")
	if err == nil || !strings.Contains(err.Error(), "sheets service not initialized") {
		t.Errorf("expected uninitialized-service error, got: %v", err)
	}
}

func TestLedgerRow(t *testing.T) {
	tr := core.Transaction{
		ID:          42,
		Type:        core.Income,
		Category:    "Harvest Sale",
		Amount:      core.Money{Cents: 123450},
		Date:        core.NewDate(2024, 1, 5),
		Description: "winter wheat",
		FarmID:      1,
	}

	row := ledgerRow(tr, "Green Acres")
	want := []any{"42", "2024-01-05", "income", "Harvest Sale", "winter wheat", "1234.5", "Green Acres"}
	if len(row) != len(ledgerHeader) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(ledgerHeader))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("column %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestParseCellID(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{"42", 42, true},
		{" 7 ", 7, true},
		{float64(13), 13, true},
		{"Id", 0, false},
		{"", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseCellID(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseCellID(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
