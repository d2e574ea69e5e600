package http

import (
	"net/http"
	"time"

	"farmpilot/internal/core"
)

type apiTask struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	Priority      string `json:"priority"`
	DueDate       string `json:"dueDate"`
	Completed     bool   `json:"completed"`
	CompletedDate string `json:"completedDate,omitempty"`
	FarmID        int64  `json:"farmId"`
	CropID        int64  `json:"cropId,omitempty"`
}

func toAPITask(t core.Task) apiTask {
	out := apiTask{
		ID:        t.ID,
		Title:     t.Title,
		Type:      t.Type,
		Priority:  t.Priority,
		DueDate:   t.DueDate.ISO(),
		Completed: t.Completed,
		FarmID:    t.FarmID,
		CropID:    t.CropID,
	}
	if !t.CompletedDate.IsZero() {
		out.CompletedDate = t.CompletedDate.ISO()
	}
	return out
}

func (in apiTask) toCore(id int64) (core.Task, error) {
	due, err := core.ParseDate(in.DueDate)
	if err != nil {
		return core.Task{}, err
	}
	completedDate, err := parseOptionalDate(in.CompletedDate)
	if err != nil {
		return core.Task{}, err
	}
	priority := in.Priority
	if priority == "" {
		priority = "medium"
	}
	return core.Task{
		ID:            id,
		Title:         sanitizeInput(in.Title),
		Type:          sanitizeInput(in.Type),
		Priority:      priority,
		DueDate:       due,
		Completed:     in.Completed,
		CompletedDate: completedDate,
		FarmID:        in.FarmID,
		CropID:        in.CropID,
	}, nil
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tasks, err := s.records.ListTasks(r.Context())
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Task list error", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		out := make([]apiTask, 0, len(tasks))
		for _, t := range tasks {
			out = append(out, toAPITask(t))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var in apiTask
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		task, err := in.toCore(0)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		if err := task.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.CreateTask(r.Context(), task)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "Failed to save task", "error", err, "title", task.Title)
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAPITask(saved))

	case http.MethodDelete:
		var req idsRequest
		if err := decodeJSONBody(r, &req); err != nil || len(req.IDs) == 0 {
			writeJSONError(w, http.StatusBadRequest, "ids required")
			return
		}
		if err := s.records.DeleteTasks(r.Context(), req.IDs); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, POST, DELETE").Write(w)
	}
}

func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDFromPath(r.URL.Path, "/api/tasks/")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		task, err := s.records.GetTask(r.Context(), id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPITask(task))

	case http.MethodPut:
		var in apiTask
		if err := decodeJSONBody(r, &in); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		task, err := in.toCore(id)
		if err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, "invalid date")
			return
		}
		// Completing a task stamps the completion date when the client
		// didn't send one.
		if task.Completed && task.CompletedDate.IsZero() {
			task.CompletedDate = core.Date{Time: time.Now()}
		}
		if err := task.Validate(); err != nil {
			writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		saved, err := s.records.UpdateTask(r.Context(), task)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAPITask(saved))

	case http.MethodDelete:
		if err := s.records.DeleteTasks(r.Context(), []int64{id}); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		MethodNotAllowedError("GET, PUT, DELETE").Write(w)
	}
}
