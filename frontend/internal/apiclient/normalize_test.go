package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeId(t *testing.T) {
	t.Run("Secondary identifier becomes canonical", func(t *testing.T) {
		raw := map[string]any{"_id": json.Number("42"), "title": "x"}

		out := normalizeId(raw)

		assert.Equal(t, "42", out["id"])
		assert.NotContains(t, out, "_id")
		assert.Equal(t, "x", out["title"])
		assert.Contains(t, raw, "_id", "input is not mutated")
	})

	t.Run("Primary identifier wins", func(t *testing.T) {
		out := normalizeId(map[string]any{"id": "a", "_id": "b"})

		assert.Equal(t, "a", out["id"])
		assert.NotContains(t, out, "_id")
	})

	t.Run("No identifier", func(t *testing.T) {
		out := normalizeId(map[string]any{"title": "x"})

		assert.NotContains(t, out, "id")
	})
}

func TestNormalizeTaskDefaults(t *testing.T) {
	tests := []struct {
		name     string
		raw      map[string]any
		rotation float64
		tags     []string
	}{
		{"missing fields", map[string]any{"id": "t"}, 0, []string{}},
		{"non-numeric rotation", map[string]any{"rotation": "spin", "tags": "a,b"}, 0, []string{}},
		{"numeric string rotation", map[string]any{"rotation": "1.75", "tags": []any{"a", json.Number("3")}}, 1.75, []string{"a", "3"}},
		{"null rotation", map[string]any{"rotation": nil, "tags": nil}, 0, []string{}},
		{"dropped tag objects", map[string]any{"tags": []any{"a", map[string]any{}, nil}}, 0, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := normalizeTask(tt.raw)

			assert.Equal(t, tt.rotation, task.Rotation)
			assert.Equal(t, tt.tags, task.Tags)
		})
	}
}

func TestNormalizeTaskOptionalFields(t *testing.T) {
	task := normalizeTask(map[string]any{"description": nil, "dueDate": "not a date"})
	assert.Nil(t, task.Description)
	assert.Nil(t, task.DueDate)

	task = normalizeTask(map[string]any{"description": "", "dueDate": json.Number("1700")})
	if assert.NotNil(t, task.Description) {
		assert.Equal(t, "", *task.Description)
	}
	if assert.NotNil(t, task.DueDate) {
		assert.Equal(t, domain.Millis(1700), *task.DueDate)
	}
}

func TestNormalizeNonRecord(t *testing.T) {
	assert.Equal(t, domain.User{}, normalizeUser(nil))
	assert.Equal(t, domain.ThemePlain, normalizeBoard("junk").Theme)
	assert.Equal(t, []string{}, normalizeTask(42).Tags)
}
