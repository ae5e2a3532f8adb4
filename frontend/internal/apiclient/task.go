package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/logger"
)

// === Task Methods ===

// ListTasks degrades to an empty list on any failure, like ListBoards.
func (c *APIClient) ListTasks(ctx context.Context, boardId domain.BoardId) ([]domain.Task, error) {
	resp, err := c.do(ctx, "list_tasks", http.MethodGet, "/boards/"+url.PathEscape(boardId)+"/tasks", nil, "", true)
	if err != nil {
		logger.Component("apiclient").Warn("listing tasks failed, showing none", "board_id", boardId, "error", err)
		return []domain.Task{}, nil
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		logger.Component("apiclient").Warn("listing tasks rejected, showing none", "board_id", boardId, "status", resp.StatusCode)
		return []domain.Task{}, nil
	}
	list := decodeList(resp.Body)
	tasks := make([]domain.Task, 0, len(list))
	for _, item := range list {
		tasks = append(tasks, normalizeTask(item))
	}
	return tasks, nil
}

// CreateTask sends the draft; id and createdAt in the draft are ignored by the backend.
func (c *APIClient) CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error) {
	tags := draft.Tags
	if tags == nil {
		tags = []string{}
	}
	body := api.CreateTaskRequest{
		BoardId:     draft.BoardId,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      draft.Status,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
		Rotation:    draft.Rotation,
		Tags:        tags,
	}
	resp, err := c.doJSON(ctx, "create_task", http.MethodPost, "/tasks", body, true)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.Task{}, failure(resp, "Failed to create task")
	}
	raw, err := decodeRecord(resp.Body)
	if err != nil {
		return domain.Task{}, err
	}
	return normalizeTask(raw), nil
}

// UpdateTask resends the whole mutable field set and returns the canonical record.
func (c *APIClient) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	resp, err := c.doJSON(ctx, "update_task", http.MethodPut, "/tasks/"+url.PathEscape(task.Id), api.NewUpdateTaskRequest(task), true)
	if err != nil {
		return domain.Task{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return domain.Task{}, failure(resp, "Failed to update task")
	}
	raw, err := decodeRecord(resp.Body)
	if err != nil {
		return domain.Task{}, err
	}
	return normalizeTask(raw), nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id domain.TaskId) error {
	resp, err := c.do(ctx, "delete_task", http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, "", true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return failure(resp, "Failed to delete task")
	}
	return nil
}
