package workspace

import (
	"context"
	"math/rand"
	"net/http"
	"slices"
	"sync"

	"github.com/folio-desk/folio/frontend/internal/datamode"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/errors"
	"github.com/folio-desk/folio/shared/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var discardedResults = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "workspace_discarded_results_total",
		Help:      "Backend results intentionally not applied to the local view",
	},
	[]string{"op", "reason"},
)

// Selector picks the backend for one operation.
type Selector interface {
	Current() datamode.Route
}

// Coordinator owns the locally visible boards and tasks and applies mutations
// to them with per-operation policies:
//
//	create  pessimistic: applied once the backend returns the record
//	update  optimistic and sticky: a rejected update keeps the local value
//	delete  optimistic and irreversible: the backend call is not awaited in live mode
//
// Each task carries a version bumped by every local update or delete. A
// backend record replaces the local value only if the version it was issued
// under is still current, so stale responses never overwrite newer edits.
type Coordinator struct {
	sel      Selector
	rotation func() float64

	mu             sync.Mutex
	generation     uint64
	boards         []domain.Board
	tasks          map[domain.BoardId][]domain.Task
	versions       map[domain.TaskId]uint64
	inflight       map[domain.TaskId]int
	deletingTasks  map[domain.TaskId]struct{}
	deletingBoards map[domain.BoardId]struct{}

	background sync.WaitGroup
}

func New(sel Selector) *Coordinator {
	c := &Coordinator{
		sel:      sel,
		rotation: func() float64 { return rand.Float64()*4 - 2 },
	}
	c.resetLocked(sel.Current().Generation)
	return c
}

// Reset drops the local view, e.g. on logout.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(c.sel.Current().Generation)
}

// Wait blocks until every detached backend call has finished.
func (c *Coordinator) Wait() {
	c.background.Wait()
}

func (c *Coordinator) resetLocked(generation uint64) {
	c.generation = generation
	c.boards = nil
	c.tasks = make(map[domain.BoardId][]domain.Task)
	c.versions = make(map[domain.TaskId]uint64)
	c.inflight = make(map[domain.TaskId]int)
	c.deletingTasks = make(map[domain.TaskId]struct{})
	c.deletingBoards = make(map[domain.BoardId]struct{})
}

// current reports whether a result obtained under route may still be applied.
// A newer generation drops the whole view first. Callers hold c.mu.
func (c *Coordinator) current(route datamode.Route) bool {
	if route.Generation > c.generation {
		c.resetLocked(route.Generation)
	}
	return route.Generation == c.generation
}

// === Boards ===

// Boards reloads the board list from the selected backend.
func (c *Coordinator) Boards(ctx context.Context) []domain.Board {
	route := c.sel.Current()
	boards, _ := route.Backend.ListBoards(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(route) {
		discardedResults.WithLabelValues("list_boards", "mode_switch").Inc()
		return slices.Clone(c.boards)
	}
	c.boards = slices.DeleteFunc(slices.Clone(boards), func(b domain.Board) bool {
		_, deleting := c.deletingBoards[b.Id]
		return deleting
	})
	return slices.Clone(c.boards)
}

// CreateBoard is pessimistic: nothing is shown until the backend answers.
func (c *Coordinator) CreateBoard(ctx context.Context, title string) (domain.Board, error) {
	data, err := boardDraft(title)
	if err != nil {
		return domain.Board{}, err
	}
	route := c.sel.Current()
	created, err := route.Backend.CreateBoard(ctx, data)
	if err != nil {
		return domain.Board{}, err
	}

	if route.Mode == datamode.Live {
		// the backend listing is authoritative after a live create
		c.Boards(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(route) {
		discardedResults.WithLabelValues("create_board", "mode_switch").Inc()
		return created, nil
	}
	if !slices.ContainsFunc(c.boards, func(b domain.Board) bool { return b.Id == created.Id }) {
		c.boards = append(c.boards, created)
	}
	return created, nil
}

// DeleteBoard removes the board and its tasks from the view immediately.
func (c *Coordinator) DeleteBoard(ctx context.Context, id domain.BoardId) {
	route := c.sel.Current()

	c.mu.Lock()
	if !c.current(route) {
		c.mu.Unlock()
		return
	}
	c.boards = slices.DeleteFunc(c.boards, func(b domain.Board) bool { return b.Id == id })
	for _, t := range c.tasks[id] {
		c.versions[t.Id]++
	}
	delete(c.tasks, id)
	c.deletingBoards[id] = struct{}{}
	c.mu.Unlock()

	c.dispatchDelete(ctx, route, "delete_board", id,
		func(ctx context.Context) error { return route.Backend.DeleteBoard(ctx, id) },
		func() { delete(c.deletingBoards, id) })
}

// === Tasks ===

// Tasks reloads a board's tasks and returns those matching f. Tasks with an
// update in flight keep their local value; tasks being deleted stay hidden.
func (c *Coordinator) Tasks(ctx context.Context, boardId domain.BoardId, f Filter) ([]domain.Task, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	route := c.sel.Current()
	fetched, _ := route.Backend.ListTasks(ctx, boardId)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(route) {
		discardedResults.WithLabelValues("list_tasks", "mode_switch").Inc()
		return f.apply(c.tasks[boardId]), nil
	}
	if _, deleting := c.deletingBoards[boardId]; deleting {
		return []domain.Task{}, nil
	}

	local := c.tasks[boardId]
	bucket := make([]domain.Task, 0, len(fetched))
	for _, t := range fetched {
		if _, deleting := c.deletingTasks[t.Id]; deleting {
			continue
		}
		if c.inflight[t.Id] > 0 {
			if i := slices.IndexFunc(local, func(l domain.Task) bool { return l.Id == t.Id }); i >= 0 {
				t = local[i]
			}
		}
		bucket = append(bucket, t.Clone())
	}
	c.tasks[boardId] = bucket
	return f.apply(bucket), nil
}

// Task returns the locally visible task with the given id.
func (c *Coordinator) Task(id domain.TaskId) (domain.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	boardId, i, ok := c.locate(id)
	if !ok {
		return domain.Task{}, false
	}
	return c.tasks[boardId][i].Clone(), true
}

// CreateTask is pessimistic. In live mode the board's tasks are reloaded from
// the backend after it accepts the task.
func (c *Coordinator) CreateTask(ctx context.Context, boardId domain.BoardId, d TaskDraft) (domain.Task, error) {
	draft, err := d.build(boardId, c.rotation())
	if err != nil {
		return domain.Task{}, err
	}
	route := c.sel.Current()
	created, err := route.Backend.CreateTask(ctx, draft)
	if err != nil {
		return domain.Task{}, err
	}
	if created.BoardId == "" {
		created.BoardId = boardId
	}

	if route.Mode == datamode.Live {
		if _, err := c.Tasks(ctx, boardId, Filter{}); err != nil {
			return domain.Task{}, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(route) {
		discardedResults.WithLabelValues("create_task", "mode_switch").Inc()
		return created, nil
	}
	bucket := c.tasks[created.BoardId]
	if !slices.ContainsFunc(bucket, func(t domain.Task) bool { return t.Id == created.Id }) {
		c.tasks[created.BoardId] = append(bucket, created.Clone())
	}
	return created, nil
}

// load returns the task with the given id, reloading its board when it is
// not in the view yet. An unknown board means every board is reloaded.
func (c *Coordinator) load(ctx context.Context, id domain.TaskId, boardId domain.BoardId) (domain.Task, bool) {
	if t, ok := c.Task(id); ok {
		return t, true
	}
	var boards []domain.BoardId
	if boardId != "" {
		boards = append(boards, boardId)
	} else {
		for _, b := range c.Boards(ctx) {
			boards = append(boards, b.Id)
		}
	}
	for _, b := range boards {
		if _, err := c.Tasks(ctx, b, Filter{}); err != nil {
			return domain.Task{}, false
		}
		if t, ok := c.Task(id); ok {
			return t, true
		}
	}
	return domain.Task{}, false
}

// UpdateTask applies task locally, then sends it. The canonical record
// replaces the local value when it arrives; a backend failure is logged and
// the local value stands, so the returned error is only ever local. A task
// missing from the view is looked up once on the backend first.
func (c *Coordinator) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if _, ok := c.load(ctx, task.Id, task.BoardId); !ok {
		return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Task not found", StatusCode: http.StatusNotFound}
	}
	route := c.sel.Current()

	c.mu.Lock()
	if !c.current(route) {
		c.mu.Unlock()
		return domain.Task{}, errors.InvalidInput("Session changed, reload the board")
	}
	boardId, i, ok := c.locate(task.Id)
	if !ok {
		c.mu.Unlock()
		return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Task not found", StatusCode: http.StatusNotFound}
	}
	optimistic := task.Clone()
	optimistic.BoardId = boardId
	if optimistic.Tags == nil {
		optimistic.Tags = []string{}
	}
	c.tasks[boardId][i] = optimistic
	c.versions[task.Id]++
	version := c.versions[task.Id]
	c.inflight[task.Id]++
	c.mu.Unlock()

	saved, err := route.Backend.UpdateTask(ctx, optimistic.Clone())

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.current(route) {
		discardedResults.WithLabelValues("update_task", "mode_switch").Inc()
		return optimistic, nil
	}
	c.inflight[task.Id]--
	if c.inflight[task.Id] <= 0 {
		delete(c.inflight, task.Id)
	}
	if err != nil {
		logger.Component("workspace").Warn("task update rejected, keeping local value", "task_id", task.Id, "error", err)
		discardedResults.WithLabelValues("update_task", "failed").Inc()
		return optimistic, nil
	}
	if c.versions[task.Id] != version {
		discardedResults.WithLabelValues("update_task", "stale").Inc()
		if b, j, ok := c.locate(task.Id); ok {
			return c.tasks[b][j].Clone(), nil
		}
		return optimistic, nil
	}
	if saved.Id == "" {
		saved.Id = task.Id
	}
	if saved.BoardId == "" {
		saved.BoardId = boardId
	}
	if b, j, ok := c.locate(task.Id); ok {
		c.tasks[b][j] = saved.Clone()
	}
	return saved, nil
}

// EditTask replaces every mutable field of the task and sends it through UpdateTask.
func (c *Coordinator) EditTask(ctx context.Context, id domain.TaskId, e TaskEdit) (domain.Task, error) {
	current, ok := c.load(ctx, id, "")
	if !ok {
		return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Task not found", StatusCode: http.StatusNotFound}
	}
	next, err := e.applyTo(current)
	if err != nil {
		return domain.Task{}, err
	}
	return c.UpdateTask(ctx, next)
}

// ToggleTask flips DONE and TODO through the update path.
func (c *Coordinator) ToggleTask(ctx context.Context, id domain.TaskId) (domain.Task, error) {
	current, ok := c.load(ctx, id, "")
	if !ok {
		return domain.Task{}, &errors.ErrorWithStatusCode{Message: "Task not found", StatusCode: http.StatusNotFound}
	}
	return c.UpdateTask(ctx, current.Toggled())
}

// DeleteTask removes the task from the view immediately. Unknown ids are
// still sent to the backend.
func (c *Coordinator) DeleteTask(ctx context.Context, id domain.TaskId) {
	route := c.sel.Current()

	c.mu.Lock()
	if !c.current(route) {
		c.mu.Unlock()
		return
	}
	if boardId, i, ok := c.locate(id); ok {
		c.tasks[boardId] = slices.Delete(c.tasks[boardId], i, i+1)
	}
	c.versions[id]++
	c.deletingTasks[id] = struct{}{}
	c.mu.Unlock()

	c.dispatchDelete(ctx, route, "delete_task", id,
		func(ctx context.Context) error { return route.Backend.DeleteTask(ctx, id) },
		func() { delete(c.deletingTasks, id) })
}

// dispatchDelete runs a delete against the backend. Demo deletes are
// synchronous. Live deletes are detached: the call outlives ctx and its
// result is logged and dropped, the local deletion stands either way.
// settle runs under c.mu once the call is over.
func (c *Coordinator) dispatchDelete(ctx context.Context, route datamode.Route, op, id string, call func(context.Context) error, settle func()) {
	finish := func(err error) {
		if err != nil {
			logger.Component("workspace").Warn("background delete failed, local deletion stands", "op", op, "id", id, "error", err)
			discardedResults.WithLabelValues(op, "failed").Inc()
		}
		c.mu.Lock()
		if c.generation == route.Generation {
			settle()
		}
		c.mu.Unlock()
	}

	if route.Mode == datamode.Demo {
		finish(call(ctx))
		return
	}

	detached := context.WithoutCancel(ctx)
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		finish(call(detached))
	}()
}

// locate finds a task in the view. Callers hold c.mu.
func (c *Coordinator) locate(id domain.TaskId) (domain.BoardId, int, bool) {
	for boardId, bucket := range c.tasks {
		for i, t := range bucket {
			if t.Id == id {
				return boardId, i, true
			}
		}
	}
	return "", 0, false
}
