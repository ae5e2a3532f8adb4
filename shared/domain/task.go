package domain

type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	Id          TaskId       `json:"id"`
	BoardId     BoardId      `json:"boardId"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	CreatedAt   Millis       `json:"createdAt"`
	DueDate     *Millis      `json:"dueDate,omitempty"`
	Tags        []string     `json:"tags"`
	// Rotation is display affinity only. It is carried through every update untouched.
	Rotation float64 `json:"rotation"`
}

// Toggled flips a task between DONE and TODO. Anything that is not DONE becomes DONE.
func (t Task) Toggled() Task {
	if t.Status == StatusDone {
		t.Status = StatusTodo
	} else {
		t.Status = StatusDone
	}
	return t
}

// Clone returns a copy that shares no slices or pointers with t.
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		due := *t.DueDate
		c.DueDate = &due
	}
	c.Tags = append([]string{}, t.Tags...)
	return c
}

func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}
