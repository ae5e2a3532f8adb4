package devapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/folio-desk/folio/shared/api"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	boardNotFound = "Board not found"
	taskNotFound  = "Task not found"
)

func (s *Server) requestUser(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	user := middleware.GetUserFromContext(r)
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return domain.User{}, false
	}
	return *user, true
}

// ownedBoard returns the board if it exists and belongs to owner. Callers hold s.mu.
func (s *Server) ownedBoard(id domain.BoardId, owner domain.UserId) (domain.Board, bool) {
	b, ok := s.boards[id]
	if !ok || b.OwnerId != owner {
		return domain.Board{}, false
	}
	return b, true
}

// ownedTask returns the task if its board belongs to owner. Callers hold s.mu.
func (s *Server) ownedTask(id domain.TaskId, owner domain.UserId) (domain.Task, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return domain.Task{}, false
	}
	if _, ok := s.ownedBoard(t.BoardId, owner); !ok {
		return domain.Task{}, false
	}
	return t, true
}

func (s *Server) ListBoards(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []boardRecord{}
	for _, id := range s.boardOrder {
		if b := s.boards[id]; b.OwnerId == user.Id {
			out = append(out, toBoardRecord(b))
		}
	}
	writeJSON(w, out)
}

func (s *Server) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	var body api.CreateBoardRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	theme := body.Theme
	if theme == "" {
		theme = domain.ThemePlain
	}
	if !theme.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "theme: must be one of plain, grid, lines, dots")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := domain.Board{
		Id:          uuid.NewString(),
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		OwnerId:     user.Id,
		Theme:       theme,
		CreatedAt:   s.now().UnixMilli(),
	}
	s.boards[b.Id] = b
	s.boardOrder = append(s.boardOrder, b.Id)
	writeJSON(w, toBoardRecord(b))
}

// DeleteBoard cascades to every task of the board.
func (s *Server) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedBoard(id, user.Id); !ok {
		writeDetail(w, http.StatusNotFound, boardNotFound)
		return
	}
	delete(s.boards, id)
	s.boardOrder = slices.DeleteFunc(s.boardOrder, func(b domain.BoardId) bool { return b == id })
	s.taskOrder = slices.DeleteFunc(s.taskOrder, func(t domain.TaskId) bool {
		if s.tasks[t].BoardId != id {
			return false
		}
		delete(s.tasks, t)
		return true
	})
	writeJSON(w, api.StatusResponse{Status: "deleted"})
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	boardId := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedBoard(boardId, user.Id); !ok {
		writeDetail(w, http.StatusNotFound, boardNotFound)
		return
	}
	out := []taskRecord{}
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; t.BoardId == boardId {
			out = append(out, toTaskRecord(t))
		}
	}
	writeJSON(w, out)
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	var body api.CreateTaskRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	if !validEnums(w, body.Status, body.Priority) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedBoard(body.BoardId, user.Id); !ok {
		writeDetail(w, http.StatusNotFound, boardNotFound)
		return
	}
	t := domain.Task{
		Id:          uuid.NewString(),
		BoardId:     body.BoardId,
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		CreatedAt:   s.now().UnixMilli(),
		DueDate:     body.DueDate,
		Tags:        body.Tags,
		Rotation:    body.Rotation,
	}
	s.tasks[t.Id] = t
	s.taskOrder = append(s.taskOrder, t.Id)
	writeJSON(w, toTaskRecord(t))
}

// UpdateTask replaces every mutable field.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	var body api.UpdateTaskRequest
	if !decodeBody(w, r.Body, &body) {
		return
	}
	if !validEnums(w, body.Status, body.Priority) {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTask(id, user.Id)
	if !ok {
		writeDetail(w, http.StatusNotFound, taskNotFound)
		return
	}
	t.Title = body.Title
	t.Description = body.Description
	t.Status = body.Status
	t.Priority = body.Priority
	t.DueDate = body.DueDate
	t.Tags = body.Tags
	t.Rotation = body.Rotation
	s.tasks[id] = t
	writeJSON(w, toTaskRecord(t))
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requestUser(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ownedTask(id, user.Id); !ok {
		writeDetail(w, http.StatusNotFound, taskNotFound)
		return
	}
	delete(s.tasks, id)
	s.taskOrder = slices.DeleteFunc(s.taskOrder, func(t domain.TaskId) bool { return t == id })
	writeJSON(w, api.StatusResponse{Status: "deleted"})
}

func validEnums(w http.ResponseWriter, status domain.TaskStatus, priority domain.TaskPriority) bool {
	if !status.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "status: must be one of TODO, IN_PROGRESS, DONE")
		return false
	}
	if !priority.Valid() {
		writeDetail(w, http.StatusUnprocessableEntity, "priority: must be one of LOW, MEDIUM, HIGH")
		return false
	}
	return true
}
