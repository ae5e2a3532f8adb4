package handler

import (
	"net/http"

	"github.com/folio-desk/folio/frontend/internal/workspace"
	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/utils"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	filter := workspace.Filter{
		Status: r.URL.Query().Get("status"),
		Query:  r.URL.Query().Get("q"),
	}
	tasks, err := h.desk.Workspace.Tasks(r.Context(), chi.URLParam(r, "board"), filter)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	views := make([]api.TaskView, len(tasks))
	for i, t := range tasks {
		views[i] = h.taskView(t)
	}
	utils.WriteJSON(w, http.StatusOK, api.TaskListResponse{Tasks: views})
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTaskDraftRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	task, err := h.desk.Workspace.CreateTask(r.Context(), chi.URLParam(r, "board"), workspace.TaskDraft{
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, h.taskView(task))
}

// UpdateTask replaces every mutable field. A backend failure is not an
// error here: the edited value stays.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var body api.EditTaskRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	task, err := h.desk.Workspace.EditTask(r.Context(), chi.URLParam(r, "task"), workspace.TaskEdit{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
		Tags:        body.Tags,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.taskView(task))
}

func (h *Handler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.desk.Workspace.ToggleTask(r.Context(), chi.URLParam(r, "task"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.taskView(task))
}

// DeleteTask answers before the backend does.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	h.desk.Workspace.DeleteTask(r.Context(), chi.URLParam(r, "task"))
	utils.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "deleted"})
}
