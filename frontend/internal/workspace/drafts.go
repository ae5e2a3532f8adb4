package workspace

import (
	"strings"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
)

const newBoardDescription = "New task"

// TaskDraft is what a user types to create a task.
type TaskDraft struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
}

// TaskEdit is the full mutable field set of an existing task.
type TaskEdit struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *domain.Millis
	Tags        []string
}

func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func requiredTitle(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.InvalidInput("Title is required")
	}
	return s, nil
}

func (d TaskDraft) build(boardId domain.BoardId, rotation float64) (domain.Task, error) {
	title, err := requiredTitle(d.Title)
	if err != nil {
		return domain.Task{}, err
	}
	priority := d.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return domain.Task{}, errors.InvalidInput("Unknown priority")
	}
	return domain.Task{
		BoardId:     boardId,
		Title:       title,
		Description: optionalText(d.Description),
		Status:      domain.StatusTodo,
		Priority:    priority,
		Tags:        []string{},
		Rotation:    rotation,
	}, nil
}

// applyTo replaces every mutable field of current. Identity, board, creation
// time and rotation are kept.
func (e TaskEdit) applyTo(current domain.Task) (domain.Task, error) {
	title, err := requiredTitle(e.Title)
	if err != nil {
		return domain.Task{}, err
	}
	if !e.Status.Valid() {
		return domain.Task{}, errors.InvalidInput("Unknown status")
	}
	if !e.Priority.Valid() {
		return domain.Task{}, errors.InvalidInput("Unknown priority")
	}
	next := current.Clone()
	next.Title = title
	next.Description = optionalText(e.Description)
	next.Status = e.Status
	next.Priority = e.Priority
	next.DueDate = nil
	if e.DueDate != nil {
		due := *e.DueDate
		next.DueDate = &due
	}
	next.Tags = append([]string{}, e.Tags...)
	return next, nil
}

func boardDraft(title string) (domain.BoardCreationData, error) {
	t, err := requiredTitle(title)
	if err != nil {
		return domain.BoardCreationData{}, err
	}
	return domain.BoardCreationData{Title: t, Description: newBoardDescription, Theme: domain.ThemePlain}, nil
}
