package http

import (
	"net/http"

	"farmpilot/internal/core"
)

type apiFarm struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Size      float64 `json:"size"`
	SizeUnit  string  `json:"sizeUnit"`
	Location  string  `json:"location"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

func toAPIFarm(f core.Farm) apiFarm {
	out := apiFarm{
		ID:       f.ID,
		Name:     f.Name,
		Size:     f.Size,
		SizeUnit: f.SizeUnit,
		Location: f.Location,
	}
	if !f.CreatedAt.IsZero() {
		out.CreatedAt = f.CreatedAt.ISO()
	}
	return out
}

func (in apiFarm) toCore(id int64) (core.Farm, error) {
	created, err := parseOptionalDate(in.CreatedAt)
	if err != nil {
		return core.Farm{}, err
	}
	return core.Farm{
		ID:        id,
		Name:      sanitizeInput(in.Name),
		Size:      in.Size,
		SizeUnit:  sanitizeInput(in.SizeUnit),
		Location:  sanitizeInput(in.Location),
		CreatedAt: created,
	}, nil
}

func (s *Server) handleFarms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		farms, err := s.getFarms(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Farm list error", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to list farms")
			return
		}
		out := make([]apiFarm, 0, len(farms))
		for _, f := range farms {
			out = append(out, toAPIFarm(f))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in apiFarm
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		farm, err := in.toCore(0)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid created date")
			return
		}
		if err := farm.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.CreateFarm(r.Context(), farm)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to save farm", "error", err, "name", farm.Name)
			writeStoreError(w, err)
			return
		}
		s.invalidateFarms()
		writeJSON(w, http.StatusCreated, toAPIFarm(saved))

	case http.MethodDelete:
		var req idsRequest
		if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids required")
			return
		}
		if err := s.records.DeleteFarms(r.Context(), req.IDs); err != nil {
			writeStoreError(w, err)
			return
		}
		s.invalidateFarms()
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) handleFarmByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/farms/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		farm, err := s.records.GetFarm(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPIFarm(farm))

	case http.MethodPut:
		var in apiFarm
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		farm, err := in.toCore(id)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid created date")
			return
		}
		if err := farm.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateFarm(r.Context(), farm)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		s.invalidateFarms()
		writeJSON(w, http.StatusOK, toAPIFarm(saved))

	case http.MethodDelete:
		if err := s.records.DeleteFarms(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		s.invalidateFarms()
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
