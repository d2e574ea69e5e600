package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// parseIDFromPath extracts the trailing numeric id from a path like
// /api/transactions/42.
func parseIDFromPath(path, prefix string) (int64, error) {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, errors.New("missing record id")
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid record id")
	}
	return id, nil
}

// writeJSON serializes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeStoreError maps store errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSONBody decodes the request body into v, rejecting unknown fields.
func decodeJSONBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// idsRequest is the delete-by-ids body shared by every record endpoint.
type idsRequest struct {
	IDs []int64 `json:"ids"`
}

// parseOptionalDate parses a YYYY-MM-DD string, tolerating empty input.
func parseOptionalDate(s string) (core.Date, error) {
	if strings.TrimSpace(s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}

func (s *Server) recordCacheHit() {
	atomic.AddInt64(&s.metrics.cacheHits, 1)
}

func (s *Server) recordCacheMiss() {
	atomic.AddInt64(&s.metrics.cacheMisses, 1)
}
