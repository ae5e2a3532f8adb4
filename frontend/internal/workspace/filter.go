package workspace

import (
	"strings"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
)

// StatusAll disables status filtering.
const StatusAll = "ALL"

// Filter narrows a board's task listing. An empty Status means StatusAll.
type Filter struct {
	Status string
	Query  string
}

func (f Filter) Validate() error {
	if f.Status == "" || f.Status == StatusAll || domain.TaskStatus(f.Status).Valid() {
		return nil
	}
	return errors.InvalidInput("Unknown status filter")
}

// Match reports whether t passes the status filter and whether the query is a
// case-insensitive substring of its title or description.
func (f Filter) Match(t domain.Task) bool {
	if f.Status != "" && f.Status != StatusAll && string(t.Status) != f.Status {
		return false
	}
	q := strings.ToLower(f.Query)
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.DescriptionText()), q)
}

func (f Filter) apply(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}
