package http

import (
	"html/template"
	"net/http"
	"strings"
	"sync/atomic"

	"farmpilot/internal/core"
	"farmpilot/internal/log"
)

// apiTransaction is the wire shape of a transaction. Amounts travel as
// decimal strings so clients never handle cents.
type apiTransaction struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	FarmID      int64  `json:"farmId"`
}

func toAPITransaction(t core.Transaction) apiTransaction {
	return apiTransaction{
		ID:          t.ID,
		Type:        string(t.Type),
		Category:    t.Category,
		Amount:      t.Amount.DecimalString(),
		Date:        t.Date.ISO(),
		Description: t.Description,
		FarmID:      t.FarmID,
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	case http.MethodDelete:
		s.deleteTransactions(w, r)
	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.getTransactions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Transaction list error", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	out := make([]apiTransaction, 0, len(txs))
	for _, t := range txs {
		out = append(out, toAPITransaction(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	amountStr := parser.Get("amount")
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		UnprocessableEntityError("Invalid amount").Write(w)
		return
	}

	date, err := core.ParseDate(parser.Get("date"))
	if err != nil {
		UnprocessableEntityError("Invalid date").Write(w)
		return
	}

	tx := core.Transaction{
		Type:        core.TransactionType(parser.Get("type")),
		Category:    parser.Get("category"),
		Amount:      core.Money{Cents: cents},
		Date:        date,
		Description: parser.Get("description"),
		FarmID:      parser.GetInt64("farmId"),
	}
	if tx.FarmID == 0 {
		tx.FarmID = parser.GetInt64("farm_id")
	}
	if err := tx.Validate(); err != nil {
		UnprocessableEntityError("Invalid data: " + err.Error()).Write(w)
		return
	}

	saved, err := s.records.CreateTransaction(r.Context(), tx)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			log.FieldTransactionType, string(tx.Type),
			log.FieldCategory, tx.Category,
			log.FieldAmountCents, tx.Amount.Cents,
			log.FieldFarmID, tx.FarmID,
			log.FieldOperation, log.OpCreate)
		InternalServerError("Error saving transaction").Write(w)
		return
	}

	atomic.AddInt64(&s.metrics.totalTransactions, 1)
	s.invalidateTransactions()

	s.logger.InfoContext(r.Context(), "Transaction created successfully",
		log.FieldTransactionID, saved.ID,
		log.FieldTransactionType, string(saved.Type),
		log.FieldCategory, saved.Category,
		log.FieldAmountCents, saved.Amount.Cents,
		log.FieldOperation, log.OpCreate)

	if parser.IsJSON() {
		writeJSON(w, http.StatusCreated, toAPITransaction(saved))
		return
	}

	NewHTMXResponse().
		TriggerTransactionCreated(saved.ID).
		TriggerSummaryRefresh().
		TriggerFormReset().
		BodyHTML(`<div class="success">Recorded ` + template.HTMLEscapeString(string(saved.Type)) +
			` of ` + template.HTMLEscapeString(saved.Amount.FormatUSD()) +
			` (` + template.HTMLEscapeString(saved.Category) + `)</div>`).
		Write(w)
}

func (s *Server) deleteTransactions(w http.ResponseWriter, r *http.Request) {
	var req idsRequest
	if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
		writeJSONError(w, http.StatusBadRequest, "ids required")
		return
	}

	if err := s.records.DeleteTransactions(r.Context(), req.IDs); err != nil {
		s.logger.ErrorContext(r.Context(), "Failed to delete transactions", "error", err, "count", len(req.IDs))
		writeStoreError(w, err)
		return
	}

	s.invalidateTransactions()
	w.Header().Set("HX-Trigger", `{"transaction:deleted": {}, "summary:refresh": {}}`)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/transactions/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		tx, err := s.records.GetTransaction(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPITransaction(tx))

	case http.MethodPut:
		var in apiTransaction
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		cents, err := core.ParseDecimalToCents(strings.TrimSpace(in.Amount))
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		date, err := core.ParseDate(in.Date)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		tx := core.Transaction{
			ID:          id,
			Type:        core.TransactionType(in.Type),
			Category:    sanitizeInput(in.Category),
			Amount:      core.Money{Cents: cents},
			Date:        date,
			Description: sanitizeInput(in.Description),
			FarmID:      in.FarmID,
		}
		if err := tx.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateTransaction(r.Context(), tx)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		s.invalidateTransactions()
		writeJSON(w, http.StatusOK, toAPITransaction(saved))

	case http.MethodDelete:
		if err := s.records.DeleteTransactions(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		s.invalidateTransactions()
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
