package apiclient

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/folio-desk/folio/shared/domain"
)

// secondaryIdField is the document-store identifier some backends emit instead of "id".
const secondaryIdField = "_id"

// normalizeId returns a copy of raw whose "id" is the string form of whichever
// identifier is present, with the secondary field removed.
func normalizeId(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		out[k] = v
	}
	id, ok := raw["id"]
	if !ok || id == nil {
		id, ok = raw[secondaryIdField]
	}
	if ok && id != nil {
		delete(out, secondaryIdField)
		out["id"] = asString(id)
	}
	return out
}

func normalizeUser(v any) domain.User {
	raw, _ := v.(map[string]any)
	n := normalizeId(raw)
	return domain.User{
		Id:    asString(n["id"]),
		Email: asString(n["email"]),
		Name:  asString(n["name"]),
	}
}

func normalizeBoard(v any) domain.Board {
	raw, _ := v.(map[string]any)
	n := normalizeId(raw)
	owner := n["userId"]
	if owner == nil {
		owner = n["ownerId"]
	}
	theme := domain.Theme(asString(n["theme"]))
	if theme == "" {
		theme = domain.ThemePlain
	}
	return domain.Board{
		Id:          asString(n["id"]),
		Title:       asString(n["title"]),
		Description: asString(n["description"]),
		OwnerId:     asString(owner),
		Theme:       theme,
		CreatedAt:   asMillis(n["createdAt"]),
	}
}

func normalizeTask(v any) domain.Task {
	raw, _ := v.(map[string]any)
	n := normalizeId(raw)

	task := domain.Task{
		Id:        asString(n["id"]),
		BoardId:   asString(n["boardId"]),
		Title:     asString(n["title"]),
		Status:    domain.TaskStatus(asString(n["status"])),
		Priority:  domain.TaskPriority(asString(n["priority"])),
		CreatedAt: asMillis(n["createdAt"]),
		Tags:      asStrings(n["tags"]),
	}
	if d := n["description"]; d != nil {
		s := asString(d)
		task.Description = &s
	}
	if due := n["dueDate"]; due != nil {
		if f, ok := asNumber(due); ok {
			m := domain.Millis(f)
			task.DueDate = &m
		}
	}
	if r, ok := asNumber(n["rotation"]); ok {
		task.Rotation = r
	}
	return task
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case map[string]any:
		// extended JSON object ids: {"$oid": "..."}
		if oid, ok := t["$oid"].(string); ok {
			return oid
		}
	}
	return fmt.Sprint(v)
}

// asNumber coerces v to a finite number; ok is false for absent or non-numeric values.
func asNumber(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asMillis(v any) domain.Millis {
	f, _ := asNumber(v)
	return domain.Millis(f)
}

// asStrings keeps the string-like elements of a list; anything that is not a list is empty.
func asStrings(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch item.(type) {
		case string, json.Number, float64, bool:
			out = append(out, asString(item))
		}
	}
	return out
}
