package http

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"farmpilot/internal/core"
	"farmpilot/internal/export"
	"farmpilot/internal/log"
)

// handleExport serves the export form on GET and runs the export pipeline
// on POST, streaming the artifact back to the client.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleExportForm(w, r)
	case http.MethodPost:
		s.handleRunExport(w, r)
	default:
		MethodNotAllowedError("GET, POST").Write(w)
	}
}

// exportFormData pre-fills the export dialog with the current month.
type exportFormData struct {
	DefaultStart string
	DefaultEnd   string
}

func (s *Server) handleExportForm(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	now := time.Now()
	data := exportFormData{
		DefaultStart: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
		DefaultEnd:   now.Format("2006-01-02"),
	}

	if err := s.templates.ExecuteTemplate(w, "export.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "Export template execution failed", "error", err, "template", "export.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRunExport(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	req, err := parseExportRequest(parser)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	// Transactions and farms are independent reads; fetch them concurrently.
	var (
		transactions []core.Transaction
		farms        []core.Farm
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		transactions, err = s.getTransactions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		farms, err = s.getFarms(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(r.Context(), "Export data fetch failed", "error", err, log.FieldOperation, log.OpExport)
		InternalServerError("Failed to load export data").Write(w)
		return
	}

	deliverer := &httpDeliverer{w: w}
	if err := s.exporter.Run(r.Context(), transactions, farms, req, deliverer); err != nil {
		if isExportRequestError(err) {
			s.logger.WarnContext(r.Context(), "Export rejected", "error", err,
				log.FieldExportFormat, string(req.Format),
				log.FieldOperation, log.OpExport)
			UnprocessableEntityError(err.Error()).Write(w)
			return
		}
		s.logger.ErrorContext(r.Context(), "Export failed", "error", err,
			log.FieldExportFormat, string(req.Format),
			log.FieldOperation, log.OpExport)
		if !deliverer.started {
			InternalServerError("Export failed").Write(w)
		}
		return
	}

	atomic.AddInt64(&s.metrics.totalExports, 1)
	s.logger.InfoContext(r.Context(), "Export completed",
		log.FieldExportFormat, string(req.Format),
		"transactions", len(transactions),
		log.FieldOperation, log.OpExport)
}

// parseExportRequest builds the pipeline request from dialog fields. Dates
// are left zero when absent so the pipeline's own validation reports the
// missing bound.
func parseExportRequest(parser *RequestBodyParser) (export.Request, error) {
	req := export.Request{
		Format:          export.Format(parser.Get("format")),
		IncludeIncome:   parser.GetBool("includeIncome"),
		IncludeExpenses: parser.GetBool("includeExpenses"),
	}
	if req.Format == "" {
		req.Format = export.FormatCSV
	}

	if v := parser.Get("startDate"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return export.Request{}, errors.New("invalid start date")
		}
		req.StartDate = d
	}
	if v := parser.Get("endDate"); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return export.Request{}, errors.New("invalid end date")
		}
		req.EndDate = d
	}

	return req, nil
}

// isExportRequestError reports whether the pipeline rejected the request
// itself (bad dialog input or nothing to export) as opposed to failing to
// produce or deliver the artifact.
func isExportRequestError(err error) bool {
	return errors.Is(err, export.ErrMissingDateBound) ||
		errors.Is(err, export.ErrDateRangeInverted) ||
		errors.Is(err, export.ErrNoTypesSelected) ||
		errors.Is(err, export.ErrUnknownFormat) ||
		errors.Is(err, export.ErrNoTransactions)
}

// httpDeliverer streams a finished artifact to the HTTP response: CSV as a
// named attachment, the report as an inline page for the browser's print
// surface.
type httpDeliverer struct {
	w       http.ResponseWriter
	started bool
}

func (d *httpDeliverer) Deliver(ctx context.Context, a *export.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.w.Header().Set("Content-Type", a.ContentType)
	if a.Disposition == export.Download && a.Filename != "" {
		d.w.Header().Set("Content-Disposition", `attachment; filename="`+a.Filename+`"`)
	}
	d.started = true
	_, err := d.w.Write(a.Content)
	return err
}
