package export

import (
	"context"
	"errors"
	"strings"
	"testing"

	"farmpilot/internal/core"
)

// captureDeliverer records the artifact instead of invoking a real surface.
type captureDeliverer struct {
	artifact *Artifact
	err      error
}

func (d *captureDeliverer) Deliver(_ context.Context, a *Artifact) error {
	if d.err != nil {
		return d.err
	}
	d.artifact = a
	return nil
}

func TestRequestValidate(t *testing.T) {
	valid := Request{
		StartDate:       mustDate(t, "2024-01-01"),
		EndDate:         mustDate(t, "2024-01-31"),
		Format:          FormatCSV,
		IncludeIncome:   true,
		IncludeExpenses: true,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{"missing start", func(r *Request) { r.StartDate = core.Date{} }, ErrMissingDateBound},
		{"missing end", func(r *Request) { r.EndDate = core.Date{} }, ErrMissingDateBound},
		{"inverted range", func(r *Request) { r.StartDate, r.EndDate = r.EndDate, r.StartDate }, ErrDateRangeInverted},
		{"no types", func(r *Request) { r.IncludeIncome, r.IncludeExpenses = false, false }, ErrNoTypesSelected},
		{"bad format", func(r *Request) { r.Format = "xlsx" }, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			if err := req.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestExportRejectsBeforeFiltering(t *testing.T) {
	transactions, farms := scenarioInputs()
	req := Request{
		StartDate: mustDate(t, "2024-01-01"),
		EndDate:   mustDate(t, "2024-01-31"),
		Format:    FormatCSV,
		// neither type selected
	}
	_, err := NewService().Export(context.Background(), transactions, farms, req)
	if !errors.Is(err, ErrNoTypesSelected) {
		t.Errorf("got %v, want ErrNoTypesSelected", err)
	}
}

func TestExportEmptyResult(t *testing.T) {
	transactions, farms := scenarioInputs()
	req := Request{
		StartDate:       mustDate(t, "2024-02-01"),
		EndDate:         mustDate(t, "2024-02-28"),
		Format:          FormatCSV,
		IncludeIncome:   true,
		IncludeExpenses: true,
	}
	_, err := NewService().Export(context.Background(), transactions, farms, req)
	if !errors.Is(err, ErrNoTransactions) {
		t.Errorf("got %v, want ErrNoTransactions", err)
	}
}

func TestRunDeliversArtifact(t *testing.T) {
	transactions, farms := scenarioInputs()
	req := Request{
		StartDate:       mustDate(t, "2024-01-01"),
		EndDate:         mustDate(t, "2024-01-31"),
		Format:          FormatCSV,
		IncludeIncome:   true,
		IncludeExpenses: true,
	}

	capture := &captureDeliverer{}
	if err := NewServiceWithClock(fixedClock()).Run(context.Background(), transactions, farms, req, capture); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if capture.artifact == nil {
		t.Fatal("artifact not delivered")
	}
	if capture.artifact.Filename != "financial-data-2024-01-01-to-2024-01-31.csv" {
		t.Errorf("delivered filename = %q", capture.artifact.Filename)
	}
}

func TestRunWrapsDeliveryFailure(t *testing.T) {
	transactions, farms := scenarioInputs()
	cause := errors.New("surface unavailable")

	for _, format := range []Format{FormatCSV, FormatPDF} {
		req := Request{
			StartDate:       mustDate(t, "2024-01-01"),
			EndDate:         mustDate(t, "2024-01-31"),
			Format:          format,
			IncludeIncome:   true,
			IncludeExpenses: true,
		}
		err := NewService().Run(context.Background(), transactions, farms, req, &captureDeliverer{err: cause})
		if err == nil {
			t.Fatalf("%s: delivery failure swallowed", format)
		}
		if !errors.Is(err, cause) {
			t.Errorf("%s: cause lost: %v", format, err)
		}
		wantPrefix := "failed to export " + strings.ToUpper(string(format))
		if !strings.HasPrefix(err.Error(), wantPrefix) {
			t.Errorf("%s: error %q lacks prefix %q", format, err, wantPrefix)
		}
	}
}
