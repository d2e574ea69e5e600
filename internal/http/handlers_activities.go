package http

import (
	"net/http"

	"farmpilot/internal/core"
)

type apiActivity struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	FarmID      int64  `json:"farmId"`
	CropID      int64  `json:"cropId,omitempty"`
	EquipmentID int64  `json:"equipmentId,omitempty"`
}

func toAPIActivity(a core.Activity) apiActivity {
	return apiActivity{
		ID:          a.ID,
		Type:        a.Type,
		Description: a.Description,
		Date:        a.Date.ISO(),
		FarmID:      a.FarmID,
		CropID:      a.CropID,
		EquipmentID: a.EquipmentID,
	}
}

func (in apiActivity) toCore(id int64) (core.Activity, error) {
	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Activity{}, err
	}
	return core.Activity{
		ID:          id,
		Type:        sanitizeInput(in.Type),
		Description: sanitizeInput(in.Description),
		Date:        date,
		FarmID:      in.FarmID,
		CropID:      in.CropID,
		EquipmentID: in.EquipmentID,
	}, nil
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		activities, err := s.records.ListActivities(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Activity list error", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to list activities")
			return
		}
		out := make([]apiActivity, 0, len(activities))
		for _, a := range activities {
			out = append(out, toAPIActivity(a))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in apiActivity
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		act, err := in.toCore(0)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		if err := act.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.CreateActivity(r.Context(), act)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to save activity", "error", err, "type", act.Type)
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAPIActivity(saved))

	case http.MethodDelete:
		var req idsRequest
		if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids required")
			return
		}
		if err := s.records.DeleteActivities(r.Context(), req.IDs); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) handleActivityByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/activities/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		act, err := s.records.GetActivity(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPIActivity(act))

	case http.MethodPut:
		var in apiActivity
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		act, err := in.toCore(id)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		if err := act.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateActivity(r.Context(), act)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPIActivity(saved))

	case http.MethodDelete:
		if err := s.records.DeleteActivities(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
