package http

import (
	"net/http"

	"farmpilot/internal/core"
)

type apiCrop struct {
	ID              int64  `json:"id"`
	CropType        string `json:"cropType"`
	Field           string `json:"field"`
	PlantingDate    string `json:"plantingDate"`
	ExpectedHarvest string `json:"expectedHarvest,omitempty"`
	Status          string `json:"status"`
	Notes           string `json:"notes,omitempty"`
	FarmID          int64  `json:"farmId"`
}

func toAPICrop(c core.Crop) apiCrop {
	out := apiCrop{
		ID:           c.ID,
		CropType:     c.CropType,
		Field:        c.Field,
		PlantingDate: c.PlantingDate.ISO(),
		Status:       c.Status,
		Notes:        c.Notes,
		FarmID:       c.FarmID,
	}
	if !c.ExpectedHarvest.IsZero() {
		out.ExpectedHarvest = c.ExpectedHarvest.ISO()
	}
	return out
}

func (in apiCrop) toCore(id int64) (core.Crop, error) {
	planting, err := core.ParseDate(in.PlantingDate)
	if err != nil {
		return core.Crop{}, err
	}
	harvest, err := parseOptionalDate(in.ExpectedHarvest)
	if err != nil {
		return core.Crop{}, err
	}
	status := in.Status
	if status == "" {
		status = core.CropPlanned
	}
	return core.Crop{
		ID:              id,
		CropType:        sanitizeInput(in.CropType),
		Field:           sanitizeInput(in.Field),
		PlantingDate:    planting,
		ExpectedHarvest: harvest,
		Status:          status,
		Notes:           sanitizeInput(in.Notes),
		FarmID:          in.FarmID,
	}, nil
}

func (s *Server) handleCrops(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		crops, err := s.records.ListCrops(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Crop list error", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to list crops")
			return
		}
		out := make([]apiCrop, 0, len(crops))
		for _, c := range crops {
			out = append(out, toAPICrop(c))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in apiCrop
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		crop, err := in.toCore(0)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		if err := crop.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.CreateCrop(r.Context(), crop)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to save crop", "error", err, "crop_type", crop.CropType)
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAPICrop(saved))

	case http.MethodDelete:
		var req idsRequest
		if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids required")
			return
		}
		if err := s.records.DeleteCrops(r.Context(), req.IDs); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) handleCropByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/crops/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		crop, err := s.records.GetCrop(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPICrop(crop))

	case http.MethodPut:
		var in apiCrop
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		crop, err := in.toCore(id)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		if err := crop.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateCrop(r.Context(), crop)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPICrop(saved))

	case http.MethodDelete:
		if err := s.records.DeleteCrops(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
