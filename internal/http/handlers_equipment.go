package http

import (
	"net/http"
	"strings"

	"farmpilot/internal/core"
)

type apiEquipment struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Type                string  `json:"type"`
	Brand               string  `json:"brand,omitempty"`
	Model               string  `json:"model,omitempty"`
	Year                int     `json:"year,omitempty"`
	Status              string  `json:"status,omitempty"`
	FuelType            string  `json:"fuelType,omitempty"`
	PurchasePrice       string  `json:"purchasePrice,omitempty"`
	CurrentValue        string  `json:"currentValue,omitempty"`
	OperatingHours      float64 `json:"operatingHours,omitempty"`
	MaintenanceSchedule string  `json:"maintenanceSchedule,omitempty"`
	LastMaintenance     string  `json:"lastMaintenance,omitempty"`
	NextMaintenance     string  `json:"nextMaintenance,omitempty"`
	FarmID              int64   `json:"farmId"`
	CreatedAt           string  `json:"createdAt,omitempty"`
}

func toAPIEquipment(e core.Equipment) apiEquipment {
	out := apiEquipment{
		ID:                  e.ID,
		Name:                e.Name,
		Type:                e.Type,
		Brand:               e.Brand,
		Model:               e.Model,
		Year:                e.Year,
		Status:              e.Status,
		FuelType:            e.FuelType,
		OperatingHours:      e.OperatingHours,
		MaintenanceSchedule: e.MaintenanceSchedule,
		FarmID:              e.FarmID,
	}
	if e.PurchasePrice.Cents != 0 {
		out.PurchasePrice = e.PurchasePrice.DecimalString()
	}
	if e.CurrentValue.Cents != 0 {
		out.CurrentValue = e.CurrentValue.DecimalString()
	}
	if !e.LastMaintenance.IsZero() {
		out.LastMaintenance = e.LastMaintenance.ISO()
	}
	if !e.NextMaintenance.IsZero() {
		out.NextMaintenance = e.NextMaintenance.ISO()
	}
	if !e.CreatedAt.IsZero() {
		out.CreatedAt = e.CreatedAt.ISO()
	}
	return out
}

func (in apiEquipment) toCore(id int64) (core.Equipment, error) {
	parseMoney := func(s string) (core.Money, error) {
		if strings.TrimSpace(s) == "" {
			return core.Money{}, nil
		}
		cents, err := core.ParseDecimalToCents(s)
		if err != nil {
			return core.Money{}, err
		}
		return core.Money{Cents: cents}, nil
	}

	purchase, err := parseMoney(in.PurchasePrice)
	if err != nil {
		return core.Equipment{}, err
	}
	current, err := parseMoney(in.CurrentValue)
	if err != nil {
		return core.Equipment{}, err
	}
	last, err := parseOptionalDate(in.LastMaintenance)
	if err != nil {
		return core.Equipment{}, err
	}
	next, err := parseOptionalDate(in.NextMaintenance)
	if err != nil {
		return core.Equipment{}, err
	}
	created, err := parseOptionalDate(in.CreatedAt)
	if err != nil {
		return core.Equipment{}, err
	}

	return core.Equipment{
		ID:                  id,
		Name:                sanitizeInput(in.Name),
		Type:                sanitizeInput(in.Type),
		Brand:               sanitizeInput(in.Brand),
		Model:               sanitizeInput(in.Model),
		Year:                in.Year,
		Status:              sanitizeInput(in.Status),
		FuelType:            sanitizeInput(in.FuelType),
		PurchasePrice:       purchase,
		CurrentValue:        current,
		OperatingHours:      in.OperatingHours,
		MaintenanceSchedule: strings.ToLower(sanitizeInput(in.MaintenanceSchedule)),
		LastMaintenance:     last,
		NextMaintenance:     next,
		FarmID:              in.FarmID,
		CreatedAt:           created,
	}, nil
}

func (s *Server) handleEquipment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		equipment, err := s.records.ListEquipment(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Equipment list error", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to list equipment")
			return
		}
		out := make([]apiEquipment, 0, len(equipment))
		for _, e := range equipment {
			out = append(out, toAPIEquipment(e))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in apiEquipment
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		eq, err := in.toCore(0)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid field: "+err.Error())
			return
		}
		if err := eq.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.CreateEquipment(r.Context(), eq)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to save equipment", "error", err, "name", eq.Name)
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAPIEquipment(saved))

	case http.MethodDelete:
		var req idsRequest
		if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids required")
			return
		}
		if err := s.records.DeleteEquipment(r.Context(), req.IDs); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) handleEquipmentByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/equipment/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		eq, err := s.records.GetEquipment(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPIEquipment(eq))

	case http.MethodPut:
		var in apiEquipment
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		eq, err := in.toCore(id)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid field: "+err.Error())
			return
		}
		if err := eq.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateEquipment(r.Context(), eq)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPIEquipment(saved))

	case http.MethodDelete:
		if err := s.records.DeleteEquipment(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
