package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTaskToggled(t *testing.T) {
	tests := []struct {
		from TaskStatus
		want TaskStatus
	}{
		{StatusTodo, StatusDone},
		{StatusInProgress, StatusDone},
		{StatusDone, StatusTodo},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			task := Task{Id: "1", Status: tt.from, Rotation: 1.5}
			got := task.Toggled()
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, 1.5, got.Rotation)
		})
	}
}

func TestTaskClone(t *testing.T) {
	desc := "milk"
	due := Millis(42)
	task := Task{Id: "1", Description: &desc, DueDate: &due, Tags: []string{"a"}}

	c := task.Clone()
	*c.Description = "bread"
	*c.DueDate = 7
	c.Tags[0] = "b"

	assert.Equal(t, "milk", *task.Description)
	assert.Equal(t, Millis(42), *task.DueDate)
	assert.Equal(t, []string{"a"}, task.Tags)
}

func TestEnumsValid(t *testing.T) {
	assert.True(t, ThemeDots.Valid())
	assert.False(t, Theme("cork").Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, TaskStatus("BLOCKED").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, TaskPriority("URGENT").Valid())
}
