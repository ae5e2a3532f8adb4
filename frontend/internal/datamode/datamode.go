package datamode

import (
	"context"
	"sync"

	"github.com/folio-desk/folio/shared/domain"
	"github.com/folio-desk/folio/shared/logger"
)

type Mode string

const (
	Live Mode = "live"
	Demo Mode = "demo"
)

// Backend is the board/task surface both data sources expose.
type Backend interface {
	ListBoards(ctx context.Context) ([]domain.Board, error)
	CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error)
	DeleteBoard(ctx context.Context, id domain.BoardId) error
	ListTasks(ctx context.Context, boardId domain.BoardId) ([]domain.Task, error)
	CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error)
	UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteTask(ctx context.Context, id domain.TaskId) error
}

// Resettable is a Backend whose contents can be thrown away and re-seeded.
type Resettable interface {
	Backend
	Reset()
}

// Route is the backend selected for one call, with the mode and the
// generation it was selected under.
type Route struct {
	Backend    Backend
	Mode       Mode
	Generation uint64
}

// Router holds the demo/live flag. It is consulted on every call and never
// cached by callers; Generation changes on every mode switch.
type Router struct {
	mu           sync.RWMutex
	demo         bool
	generation   uint64
	live         Backend
	demoStore    Resettable
	clearSession func()
}

// New builds a router in live mode. clearSession is invoked when entering
// demo mode to drop any real-backend session artifacts; it may be nil.
func New(live Backend, demoStore Resettable, clearSession func()) *Router {
	return &Router{live: live, demoStore: demoStore, clearSession: clearSession}
}

// Current selects the backend for a single operation.
func (r *Router) Current() Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.demo {
		return Route{Backend: r.demoStore, Mode: Demo, Generation: r.generation}
	}
	return Route{Backend: r.live, Mode: Live, Generation: r.generation}
}

func (r *Router) Mode() Mode {
	return r.Current().Mode
}

func (r *Router) IsDemo() bool {
	return r.Current().Mode == Demo
}

func (r *Router) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// EnterDemo re-seeds the demo dataset, flips to demo and clears the live session.
func (r *Router) EnterDemo() {
	r.demoStore.Reset()
	r.mu.Lock()
	r.demo = true
	r.generation++
	r.mu.Unlock()

	if r.clearSession != nil {
		r.clearSession()
	}
	logger.Component("datamode").Info("entered demo mode")
}

// EnterLive flips to live and discards whatever the demo session changed.
func (r *Router) EnterLive() {
	r.mu.Lock()
	wasDemo := r.demo
	r.demo = false
	r.generation++
	r.mu.Unlock()

	r.demoStore.Reset()
	if wasDemo {
		logger.Component("datamode").Info("left demo mode, demo changes discarded")
	}
}

// The Router is itself a Backend that dispatches each call through Current.

func (r *Router) ListBoards(ctx context.Context) ([]domain.Board, error) {
	return r.Current().Backend.ListBoards(ctx)
}

func (r *Router) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	return r.Current().Backend.CreateBoard(ctx, data)
}

func (r *Router) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	return r.Current().Backend.DeleteBoard(ctx, id)
}

func (r *Router) ListTasks(ctx context.Context, boardId domain.BoardId) ([]domain.Task, error) {
	return r.Current().Backend.ListTasks(ctx, boardId)
}

func (r *Router) CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error) {
	return r.Current().Backend.CreateTask(ctx, draft)
}

func (r *Router) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	return r.Current().Backend.UpdateTask(ctx, task)
}

func (r *Router) DeleteTask(ctx context.Context, id domain.TaskId) error {
	return r.Current().Backend.DeleteTask(ctx, id)
}
