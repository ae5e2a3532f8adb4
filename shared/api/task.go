package api

import "github.com/folio-desk/folio/shared/domain"

// CreateTaskRequest is the backend body for POST /tasks.
type CreateTaskRequest struct {
	BoardId     domain.BoardId      `json:"boardId" validate:"required"`
	Title       string              `json:"title" validate:"required"`
	Description *string             `json:"description,omitempty"`
	Status      domain.TaskStatus   `json:"status" validate:"required"`
	Priority    domain.TaskPriority `json:"priority" validate:"required"`
	DueDate     *domain.Millis      `json:"dueDate,omitempty"`
	Rotation    float64             `json:"rotation"`
	Tags        []string            `json:"tags"`
}

// UpdateTaskRequest is the full mutable field set resent on every update.
// Nil description and due date are sent as explicit nulls.
type UpdateTaskRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description *string             `json:"description"`
	Status      domain.TaskStatus   `json:"status" validate:"required"`
	Priority    domain.TaskPriority `json:"priority" validate:"required"`
	DueDate     *domain.Millis      `json:"dueDate"`
	Rotation    float64             `json:"rotation"`
	Tags        []string            `json:"tags"`
}

func NewUpdateTaskRequest(t domain.Task) UpdateTaskRequest {
	return UpdateTaskRequest{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Rotation:    t.Rotation,
		Tags:        t.Tags,
	}
}

// Desk surface

type CreateTaskDraftRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	Priority    domain.TaskPriority `json:"priority"`
}

type EditTaskRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status" validate:"required"`
	Priority    domain.TaskPriority `json:"priority" validate:"required"`
	DueDate     *domain.Millis      `json:"dueDate"`
	Tags        []string            `json:"tags"`
}

// TaskView is a task as the desk surface renders it.
type TaskView struct {
	domain.Task
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
}

type TaskListResponse struct {
	Tasks []TaskView `json:"tasks"`
}

type BoardListResponse struct {
	Boards []domain.Board `json:"boards"`
}
