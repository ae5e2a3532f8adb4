package demo

import (
	"time"

	"github.com/folio-desk/folio/shared/domain"
)

const day = 24 * time.Hour

// User is the fixed identity of every demo session.
var User = domain.User{Id: "demo-user", Email: "demo@folio.com", Name: "Demo User"}

type seedTask struct {
	id          string
	title       string
	description string
	status      domain.TaskStatus
	priority    domain.TaskPriority
	created     time.Duration // before now
	due         time.Duration // after now, zero for none
	rotation    float64
}

type seedBoard struct {
	id          string
	title       string
	description string
	created     time.Duration
	tasks       []seedTask
}

var template = []seedBoard{
	{
		id: "demo-board-1", title: "Work", description: "Tasks for work and projects.", created: 5 * day,
		tasks: []seedTask{
			{"demo-task-1", "Review project proposal", "Go through the Q4 proposal and add comments.", domain.StatusTodo, domain.PriorityHigh, 3 * day, 2 * day, -1.2},
			{"demo-task-2", "Send weekly update", "Email the team with progress and blockers.", domain.StatusInProgress, domain.PriorityMedium, 1 * day, 0, 0.8},
			{"demo-task-3", "Schedule 1:1s", "", domain.StatusDone, domain.PriorityLow, 4 * day, 0, -0.5},
			{"demo-task-4", "Prepare deck for Monday", "Slides for the client presentation.", domain.StatusTodo, domain.PriorityHigh, 2 * day, 5 * day, 1.1},
		},
	},
	{
		id: "demo-board-2", title: "Personal", description: "Personal errands and ideas.", created: 2 * day,
		tasks: []seedTask{
			{"demo-task-5", "Buy groceries", "Milk, bread, eggs, coffee.", domain.StatusTodo, domain.PriorityMedium, 1 * day, 0, -0.3},
			{"demo-task-6", "Call mom", "", domain.StatusDone, domain.PriorityLow, 2 * day, 0, 0.6},
			{"demo-task-7", "Book dentist appointment", "Check availability for next week.", domain.StatusInProgress, domain.PriorityLow, 0, 0, -1},
		},
	},
}

// seed builds a fresh copy of the template with timestamps relative to now.
func seed(now time.Time) ([]domain.Board, map[domain.BoardId][]domain.Task) {
	boards := make([]domain.Board, 0, len(template))
	tasks := make(map[domain.BoardId][]domain.Task, len(template))
	for _, b := range template {
		boards = append(boards, domain.Board{
			Id:          b.id,
			Title:       b.title,
			Description: b.description,
			OwnerId:     User.Id,
			Theme:       domain.ThemePlain,
			CreatedAt:   now.Add(-b.created).UnixMilli(),
		})
		bucket := make([]domain.Task, 0, len(b.tasks))
		for _, st := range b.tasks {
			task := domain.Task{
				Id:        st.id,
				BoardId:   b.id,
				Title:     st.title,
				Status:    st.status,
				Priority:  st.priority,
				CreatedAt: now.Add(-st.created).UnixMilli(),
				Tags:      []string{},
				Rotation:  st.rotation,
			}
			if st.description != "" {
				desc := st.description
				task.Description = &desc
			}
			if st.due != 0 {
				due := now.Add(st.due).UnixMilli()
				task.DueDate = &due
			}
			bucket = append(bucket, task)
		}
		tasks[b.id] = bucket
	}
	return boards, tasks
}
