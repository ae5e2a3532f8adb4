package demo

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
)

// Store is the in-process dataset served in demo mode. Every method applies
// its mutation synchronously and never fails for transport reasons.
type Store struct {
	mu     sync.Mutex
	now    func() time.Time
	seq    uint64
	boards []domain.Board
	tasks  map[domain.BoardId][]domain.Task
}

func NewStore() *Store {
	s := &Store{now: time.Now}
	s.Reset()
	return s
}

// Reset destroys every mutation and re-seeds the fixed template.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards, s.tasks = seed(s.now())
}

// nextId synthesizes a timestamp-derived id; the sequence keeps ids minted
// within the same millisecond distinct.
func (s *Store) nextId(kind string) string {
	s.seq++
	return fmt.Sprintf("demo-%s-%d-%d", kind, s.now().UnixMilli(), s.seq)
}

func (s *Store) ListBoards(ctx context.Context) ([]domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.boards), nil
}

func (s *Store) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	theme := data.Theme
	if theme == "" {
		theme = domain.ThemePlain
	}
	board := domain.Board{
		Id:          s.nextId("board"),
		Title:       data.Title,
		Description: data.Description,
		OwnerId:     User.Id,
		Theme:       theme,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.boards = append(s.boards, board)
	return board, nil
}

// DeleteBoard removes the board and its whole task bucket.
func (s *Store) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = slices.DeleteFunc(s.boards, func(b domain.Board) bool { return b.Id == id })
	delete(s.tasks, id)
	return nil
}

func (s *Store) ListTasks(ctx context.Context, boardId domain.BoardId) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.tasks[boardId]
	out := make([]domain.Task, 0, len(bucket))
	for _, t := range bucket {
		out = append(out, t.Clone())
	}
	return out, nil
}

// CreateTask assigns id and createdAt and appends to the bucket of the draft's board.
func (s *Store) CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasBoard(draft.BoardId) {
		return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Board not found", StatusCode: http.StatusNotFound}
	}
	task := draft.Clone()
	task.Id = s.nextId("task")
	task.CreatedAt = s.now().UnixMilli()
	if task.Tags == nil {
		task.Tags = []string{}
	}
	s.tasks[task.BoardId] = append(s.tasks[task.BoardId], task)
	return task.Clone(), nil
}

// UpdateTask replaces the stored task in place, keeping its board and creation time.
func (s *Store) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for boardId, bucket := range s.tasks {
		for i, existing := range bucket {
			if existing.Id != task.Id {
				continue
			}
			updated := task.Clone()
			updated.BoardId = boardId
			updated.CreatedAt = existing.CreatedAt
			bucket[i] = updated
			return updated.Clone(), nil
		}
	}
	return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Task not found", StatusCode: http.StatusNotFound}
}

func (s *Store) DeleteTask(ctx context.Context, id domain.TaskId) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for boardId, bucket := range s.tasks {
		s.tasks[boardId] = slices.DeleteFunc(bucket, func(t domain.Task) bool { return t.Id == id })
	}
	return nil
}

func (s *Store) hasBoard(id domain.BoardId) bool {
	return slices.ContainsFunc(s.boards, func(b domain.Board) bool { return b.Id == id })
}
