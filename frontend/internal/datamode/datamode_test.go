package datamode

import (
	"context"
	"testing"

	"github.com/folio-desk/folio/frontend/internal/demo"
	"github.com/folio-desk/folio/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockBackend struct {
	ListBoardsFunc func(ctx context.Context) ([]domain.Board, error)
	calls          int
}

func (m *MockBackend) ListBoards(ctx context.Context) ([]domain.Board, error) {
	m.calls++
	if m.ListBoardsFunc != nil {
		return m.ListBoardsFunc(ctx)
	}
	return []domain.Board{{Id: "live-1", Title: "Live"}}, nil
}

func (m *MockBackend) CreateBoard(ctx context.Context, data domain.BoardCreationData) (domain.Board, error) {
	m.calls++
	return domain.Board{Id: "live-new", Title: data.Title}, nil
}

func (m *MockBackend) DeleteBoard(ctx context.Context, id domain.BoardId) error {
	m.calls++
	return nil
}

func (m *MockBackend) ListTasks(ctx context.Context, boardId domain.BoardId) ([]domain.Task, error) {
	m.calls++
	return []domain.Task{}, nil
}

func (m *MockBackend) CreateTask(ctx context.Context, draft domain.Task) (domain.Task, error) {
	m.calls++
	return draft, nil
}

func (m *MockBackend) UpdateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	m.calls++
	return task, nil
}

func (m *MockBackend) DeleteTask(ctx context.Context, id domain.TaskId) error {
	m.calls++
	return nil
}

// --- Tests ---

func TestRouterDispatchesPerCall(t *testing.T) {
	live := &MockBackend{}
	store := demo.NewStore()
	cleared := 0
	r := New(live, store, func() { cleared++ })
	ctx := context.Background()

	assert.Equal(t, Live, r.Mode())
	boards, err := r.ListBoards(ctx)
	require.NoError(t, err)
	assert.Equal(t, "live-1", boards[0].Id)

	r.EnterDemo()

	assert.True(t, r.IsDemo())
	assert.Equal(t, 1, cleared)
	boards, err = r.ListBoards(ctx)
	require.NoError(t, err)
	assert.Len(t, boards, 2)
	assert.Equal(t, "demo-board-1", boards[0].Id)
	assert.Equal(t, 1, live.calls, "demo calls never reach the live backend")
}

func TestEnterDemoReseeds(t *testing.T) {
	store := demo.NewStore()
	r := New(&MockBackend{}, store, nil)
	ctx := context.Background()

	r.EnterDemo()
	require.NoError(t, r.DeleteBoard(ctx, "demo-board-1"))
	boards, _ := r.ListBoards(ctx)
	require.Len(t, boards, 1)

	r.EnterDemo()

	boards, _ = r.ListBoards(ctx)
	assert.Len(t, boards, 2)
}

func TestEnterLiveDiscardsDemoChanges(t *testing.T) {
	store := demo.NewStore()
	r := New(&MockBackend{}, store, nil)
	ctx := context.Background()
	r.EnterDemo()
	_, err := r.CreateBoard(ctx, domain.BoardCreationData{Title: "Scratch"})
	require.NoError(t, err)

	r.EnterLive()

	assert.False(t, r.IsDemo())
	demoBoards, _ := store.ListBoards(ctx)
	assert.Len(t, demoBoards, 2)
}

func TestGenerationAdvancesOnSwitch(t *testing.T) {
	r := New(&MockBackend{}, demo.NewStore(), nil)
	g0 := r.Generation()

	r.EnterDemo()
	g1 := r.Current().Generation
	r.EnterLive()
	g2 := r.Current().Generation

	assert.Greater(t, g1, g0)
	assert.Greater(t, g2, g1)
}
