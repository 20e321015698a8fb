package board

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/tactics/internal/formation"
	"github.com/playmatatu/tactics/internal/models"
	"github.com/playmatatu/tactics/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st, ManagerConfig{Width: 600, Height: 400})

	b, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Len(t, b.ID(), 36)
	assert.Equal(t, 1, st.Len(), "created boards are saved right away")

	got, err := m.Get(ctx, b.ID())
	require.NoError(t, err)
	assert.Same(t, b, got)

	w, h := got.Size()
	assert.Equal(t, 600, w)
	assert.Equal(t, 400, h)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrBoardNotFound)
}

func TestManager_LoadsFromSharedStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	first := NewManager(st, ManagerConfig{})
	b, err := first.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, b.SetFieldSize(formation.SevenASide))
	require.NoError(t, first.Save(ctx, b))

	second := NewManager(st, ManagerConfig{})
	var loaded []string
	second.OnLoad(func(b *Board) { loaded = append(loaded, b.ID()) })

	got, err := second.Get(ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, formation.SevenASide, got.FieldSize())
	assert.Equal(t, []string{b.ID()}, loaded)
	assert.Equal(t, 1, second.Len())
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st, ManagerConfig{})
	b, err := m.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, b.ID()))
	assert.Zero(t, m.Len())
	assert.Zero(t, st.Len())
	assert.ErrorIs(t, m.Delete(ctx, b.ID()), ErrBoardNotFound)
}

func TestManager_EvictIdle(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	st := store.NewMemory()
	m := NewManager(st, ManagerConfig{IdleTimeout: 30 * time.Minute, Clock: clock.Now})

	stale, err := m.Create(ctx)
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	fresh, err := m.Create(ctx)
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)
	assert.Equal(t, 1, m.EvictIdle(ctx))
	assert.Equal(t, 1, m.Len())

	// The evicted board comes back from the store.
	back, err := m.Get(ctx, stale.ID())
	require.NoError(t, err)
	assert.NotSame(t, stale, back)

	got, err := m.Get(ctx, fresh.ID())
	require.NoError(t, err)
	assert.Same(t, fresh, got)
}

// saveHookStore runs onSave before every save.
type saveHookStore struct {
	store.Store
	onSave func()
}

func (s *saveHookStore) Save(ctx context.Context, snap models.BoardSnapshot) error {
	if s.onSave != nil {
		s.onSave()
	}
	return s.Store.Save(ctx, snap)
}

func TestManager_EvictIdleKeepsBoardChangedDuringSave(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	st := &saveHookStore{Store: store.NewMemory()}
	m := NewManager(st, ManagerConfig{IdleTimeout: 30 * time.Minute, Clock: clock.Now})

	b, err := m.Create(ctx)
	require.NoError(t, err)
	clock.Advance(45 * time.Minute)

	changed := false
	st.onSave = func() {
		if !changed {
			changed = true
			b.SetDragEnabled(true)
		}
	}
	assert.Zero(t, m.EvictIdle(ctx))
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(ctx, b.ID())
	require.NoError(t, err)
	assert.Same(t, b, got)
	assert.True(t, got.State().DragEnabled)
}

func TestManager_RunSaverPersistsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.NewMemory()
	m := NewManager(st, ManagerConfig{})
	b, err := m.Create(ctx)
	require.NoError(t, err)
	go m.RunSaver(ctx)

	require.NoError(t, b.SetFieldSize(formation.FiveASide))

	assert.Eventually(t, func() bool {
		snap, err := st.Load(ctx, b.ID())
		return err == nil && snap.FieldSize == formation.FiveASide
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManager_SaveAll(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	m := NewManager(st, ManagerConfig{})
	b, err := m.Create(ctx)
	require.NoError(t, err)
	b.SetDragEnabled(true)

	assert.Equal(t, 1, m.SaveAll(ctx))
	snap, err := st.Load(ctx, b.ID())
	require.NoError(t, err)
	assert.True(t, snap.DragEnabled)
}
