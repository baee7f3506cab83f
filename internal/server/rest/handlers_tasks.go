package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
)

// taskRequest uses pointers so a missing field is distinguishable from a
// zero value during validation.
type taskRequest struct {
	Title       *string `json:"title"`
	DueDate     *string `json:"due_date"`
	Priority    *int    `json:"priority"`
	Description *string `json:"description"`
}

type taskPayload struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	DueDate     string  `json:"due_date"`
	Priority    int     `json:"priority"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func toTaskPayload(t *models.Task) taskPayload {
	return taskPayload{
		ID:          t.ID,
		Title:       t.Title,
		DueDate:     t.DueDate.Format(dueDateLayout),
		Priority:    t.Priority,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toTask converts a validated request into a record. Must only be called
// after validateTask returned no errors.
func toTask(req *taskRequest) *models.Task {
	due, _ := time.Parse(dueDateLayout, *req.DueDate)
	return &models.Task{
		Title:       *req.Title,
		DueDate:     due,
		Priority:    *req.Priority,
		Description: req.Description,
	}
}

func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, []FieldError{
			{Field: "id", Code: codeInvalidFormat, Message: "id must be an integer"},
		}, "")
		return 0, false
	}
	return id, true
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := s.tasks.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	payload := make([]taskPayload, 0, len(list))
	for _, t := range list {
		payload = append(payload, toTaskPayload(t))
	}
	s.writeJSON(w, r, http.StatusOK, payload)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if errs := validateTask(&req); len(errs) > 0 {
		s.writeError(w, r, http.StatusBadRequest, errs, "")
		return
	}

	created, err := s.tasks.Create(r.Context(), toTask(&req))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusCreated, toTaskPayload(created))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	task, err := s.tasks.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, nil, "task not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toTaskPayload(task))
}

// handleUpdateTask checks existence before validation, so an update to a
// missing record reports 404 even when the body is also invalid.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	if _, err := s.tasks.Get(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, nil, "task not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	var req taskRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if errs := validateTask(&req); len(errs) > 0 {
		s.writeError(w, r, http.StatusBadRequest, errs, "")
		return
	}

	updated, err := s.tasks.Update(r.Context(), id, toTask(&req))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, nil, "task not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, toTaskPayload(updated))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}

	if err := s.tasks.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.writeError(w, r, http.StatusNotFound, nil, "task not found")
			return
		}
		s.internalError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
