// Package export implements the financial export pipeline:
// filter -> aggregate -> render -> deliver.
//
// The pipeline is a pure function of (transactions, farms, request); it keeps
// no state between calls and its only side effect is the final hand-off to
// the injected Deliverer. Render and delivery failures are wrapped with a
// variant-identifying prefix so the caller can show the cause verbatim.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmpilot/internal/core"
)

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

var (
	ErrMissingDateBound  = errors.New("both start and end dates are required")
	ErrDateRangeInverted = errors.New("start date cannot be after end date")
	ErrNoTypesSelected   = errors.New("select at least one transaction type to export")
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrNoTransactions    = errors.New("no transactions found for the selected criteria")
)

// Request describes one export invocation. The caller builds it from the
// user's dialog selections; Validate runs before the transaction list is
// ever touched.
type Request struct {
	StartDate       core.Date
	EndDate         core.Date
	Format          Format
	IncludeIncome   bool
	IncludeExpenses bool
}

func (r Request) Validate() error {
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrMissingDateBound
	}
	if r.StartDate.After(r.EndDate.Time) {
		return ErrDateRangeInverted
	}
	if !r.IncludeIncome && !r.IncludeExpenses {
		return ErrNoTypesSelected
	}
	switch r.Format {
	case FormatCSV, FormatPDF:
	default:
		return ErrUnknownFormat
	}
	return nil
}

// Disposition tells the delivery surface how to present the artifact.
type Disposition int

const (
	// Download hands the artifact over as a named file.
	Download Disposition = iota
	// Preview hands the artifact to the print/preview surface; it is not
	// guaranteed to persist once that surface is dismissed.
	Preview
)

// Artifact is the rendered export output. Its lifecycle ends at delivery.
type Artifact struct {
	Filename    string // empty for Preview artifacts
	ContentType string
	Disposition Disposition
	Content     []byte
}

// Deliverer presents a finished artifact to the user agent. Implementations
// initiate delivery and return; they do not block on user interaction with
// the surface they open.
type Deliverer interface {
	Deliver(ctx context.Context, a *Artifact) error
}

// Service runs the export pipeline. The clock is injectable so tests can pin
// the generation timestamp.
type Service struct {
	now func() time.Time
}

func NewService() *Service {
	return &Service{now: time.Now}
}

// NewServiceWithClock returns a Service with a fixed clock, for tests.
func NewServiceWithClock(now func() time.Time) *Service {
	return &Service{now: now}
}

// Export runs filter, aggregation and rendering, returning the artifact.
// It never touches a delivery surface; use Run to deliver as well.
func (s *Service) Export(ctx context.Context, transactions []core.Transaction, farms []core.Farm, req Request) (*Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	filtered := Filter(transactions, req)
	if len(filtered) == 0 {
		return nil, ErrNoTransactions
	}

	lookup := newFarmLookup(farms)

	switch req.Format {
	case FormatCSV:
		a, err := s.renderCSV(filtered, lookup, req)
		if err != nil {
			return nil, fmt.Errorf("failed to export CSV: %w", err)
		}
		return a, nil
	case FormatPDF:
		a, err := s.renderReport(filtered, lookup, req, len(farms))
		if err != nil {
			return nil, fmt.Errorf("failed to export PDF: %w", err)
		}
		return a, nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Run executes the full pipeline including delivery. Delivery failures are
// wrapped with the same variant prefix as render failures.
func (s *Service) Run(ctx context.Context, transactions []core.Transaction, farms []core.Farm, req Request, d Deliverer) error {
	a, err := s.Export(ctx, transactions, farms, req)
	if err != nil {
		return err
	}
	if err := d.Deliver(ctx, a); err != nil {
		if req.Format == FormatCSV {
			return fmt.Errorf("failed to export CSV: %w", err)
		}
		return fmt.Errorf("failed to export PDF: %w", err)
	}
	return nil
}

// farmLookup resolves farm ids to display names. A missing farm never aborts
// the export; it falls back to a placeholder label.
type farmLookup map[int64]string

const unknownFarm = "Unknown Farm"

func newFarmLookup(farms []core.Farm) farmLookup {
	m := make(farmLookup, len(farms))
	for _, f := range farms {
		m[f.ID] = f.Name
	}
	return m
}

func (l farmLookup) Name(id int64) string {
	if name, ok := l[id]; ok && name != "" {
		return name
	}
	return unknownFarm
}
