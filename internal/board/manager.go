package board

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playmatatu/tactics/internal/drawing"
	"github.com/playmatatu/tactics/internal/store"
)

// ManagerConfig sizes new boards and controls eviction.
type ManagerConfig struct {
	Width  int
	Height int
	// IdleTimeout evicts boards nobody touched for this long. Zero keeps them forever.
	IdleTimeout time.Duration
	// Clock replaces time.Now for the manager and its boards.
	Clock   func() time.Time
	Options []Option
}

type entry struct {
	board    *Board
	cancel   func()
	lastUsed time.Time
}

// Manager keeps the live boards of this instance, loading them from the store on
// demand and saving them back after changes.
type Manager struct {
	store  store.Store
	config ManagerConfig
	now    func() time.Time

	mu     sync.Mutex
	boards map[string]*entry
	hooks  []func(*Board)

	dirty chan string
}

// NewManager creates a manager over st. A nil store keeps boards in memory only.
func NewManager(st store.Store, cfg ManagerConfig) *Manager {
	if st == nil {
		st = store.NewMemory()
	}
	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
		cfg.Options = append(append([]Option{}, cfg.Options...), WithClock(cfg.Clock))
	}
	return &Manager{
		store:  st,
		config: cfg,
		now:    now,
		boards: make(map[string]*entry),
		dirty:  make(chan string, 256),
	}
}

// OnLoad registers fn to run whenever a board becomes live on this instance, either
// created or loaded from the store.
func (m *Manager) OnLoad(fn func(*Board)) {
	m.mu.Lock()
	m.hooks = append(m.hooks, fn)
	m.mu.Unlock()
}

// Create starts a new board with a fresh ID and saves it.
func (m *Manager) Create(ctx context.Context) (*Board, error) {
	b := New(uuid.NewString(), m.config.Width, m.config.Height, m.config.Options...)
	m.adopt(b)
	if err := m.Save(ctx, b); err != nil {
		log.Printf("[BOARD] initial save of %s failed: %v", b.ID(), err)
	}
	log.Printf("[BOARD] created board %s", b.ID())
	return b, nil
}

// Get returns a live board, loading it from the store when this instance has not
// seen it yet.
func (m *Manager) Get(ctx context.Context, id string) (*Board, error) {
	m.mu.Lock()
	if e, ok := m.boards[id]; ok {
		e.lastUsed = m.now()
		m.mu.Unlock()
		return e.board, nil
	}
	m.mu.Unlock()

	snap, err := m.store.Load(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrBoardNotFound
	}
	if err != nil {
		return nil, err
	}
	b, err := Restore(snap, m.config.Options...)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if e, ok := m.boards[id]; ok {
		// Another request loaded it first.
		e.lastUsed = m.now()
		m.mu.Unlock()
		return e.board, nil
	}
	m.mu.Unlock()
	m.adopt(b)
	log.Printf("[BOARD] loaded board %s from store", id)
	return b, nil
}

// Delete removes a board from this instance and from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	e, live := m.boards[id]
	delete(m.boards, id)
	m.mu.Unlock()
	if live {
		e.cancel()
	}

	if !live {
		if _, err := m.store.Load(ctx, id); errors.Is(err, store.ErrNotFound) {
			return ErrBoardNotFound
		}
	}
	return m.store.Delete(ctx, id)
}

// Save writes a board snapshot to the store.
func (m *Manager) Save(ctx context.Context, b *Board) error {
	snap, err := b.Snapshot()
	if err != nil {
		return err
	}
	return m.store.Save(ctx, snap)
}

// Len returns the number of live boards.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boards)
}

func (m *Manager) adopt(b *Board) {
	id := b.ID()
	cancel := b.Subscribe(func(ev Event) {
		if !persistent(ev) {
			return
		}
		select {
		case m.dirty <- id:
		default:
			log.Printf("[STORE] save queue full, board %s will be saved later", id)
		}
	})

	m.mu.Lock()
	m.boards[id] = &entry{board: b, cancel: cancel, lastUsed: m.now()}
	hooks := append([]func(*Board){}, m.hooks...)
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(b)
	}
}

// persistent skips pointer samples in the middle of a stroke; the stroke is saved when
// it ends.
func persistent(ev Event) bool {
	if ev.Type != EventDrawing {
		return true
	}
	s, ok := ev.Data.(Stroke)
	return !ok || s.Pointer.Phase == drawing.PhaseUp || s.Pointer.Phase == drawing.PhaseLeave
}

// RunSaver saves boards marked dirty by their events until ctx is done. Saves queued
// while one is in flight coalesce per board.
func (m *Manager) RunSaver(ctx context.Context) {
	log.Println("[STORE] board saver started")
	for {
		select {
		case <-ctx.Done():
			log.Println("[STORE] board saver stopping")
			return
		case id := <-m.dirty:
			pending := map[string]bool{id: true}
		drain:
			for {
				select {
				case next := <-m.dirty:
					pending[next] = true
				default:
					break drain
				}
			}
			for id := range pending {
				m.saveLive(ctx, id)
			}
		}
	}
}

func (m *Manager) saveLive(ctx context.Context, id string) {
	m.mu.Lock()
	e, ok := m.boards[id]
	m.mu.Unlock()
	if !ok {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := m.Save(saveCtx, e.board); err != nil {
		log.Printf("[STORE] save board %s failed: %v", id, err)
	}
}

// StartExpiryChecker evicts idle boards every interval until ctx is done.
func (m *Manager) StartExpiryChecker(ctx context.Context, interval time.Duration) {
	if m.config.IdleTimeout <= 0 || interval <= 0 {
		log.Println("[EXPIRY] idle timeout disabled; expiry checker not started")
		return
	}
	log.Printf("[EXPIRY] expiry checker started (idle=%s every=%s)", m.config.IdleTimeout, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[EXPIRY] expiry checker stopping")
			return
		case <-ticker.C:
			m.EvictIdle(ctx)
		}
	}
}

// EvictIdle saves and drops every board idle longer than the timeout. It returns the
// number of boards evicted.
func (m *Manager) EvictIdle(ctx context.Context) int {
	if m.config.IdleTimeout <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.config.IdleTimeout)

	m.mu.Lock()
	var idle []*entry
	for _, e := range m.boards {
		if e.lastUsed.Before(cutoff) && e.board.UpdatedAt().Before(cutoff) {
			idle = append(idle, e)
		}
	}
	m.mu.Unlock()

	evicted := 0
	for _, e := range idle {
		id := e.board.ID()
		saved := e.board.UpdatedAt()
		if err := m.Save(ctx, e.board); err != nil {
			log.Printf("[EXPIRY] save before evicting %s failed: %v", id, err)
		}
		// A board changed since the save stays live for the saver to pick up.
		m.mu.Lock()
		cur, ok := m.boards[id]
		drop := ok && cur == e && !e.board.UpdatedAt().After(saved) && e.lastUsed.Before(cutoff)
		if drop {
			delete(m.boards, id)
		}
		m.mu.Unlock()
		if !drop {
			continue
		}
		e.cancel()
		evicted++
		log.Printf("[EXPIRY] evicted idle board %s", id)
	}
	return evicted
}

// SaveAll writes every live board to the store and returns how many were saved.
func (m *Manager) SaveAll(ctx context.Context) int {
	m.mu.Lock()
	live := make([]*Board, 0, len(m.boards))
	for _, e := range m.boards {
		live = append(live, e.board)
	}
	m.mu.Unlock()

	saved := 0
	for _, b := range live {
		if err := m.Save(ctx, b); err != nil {
			log.Printf("[STORE] save board %s failed: %v", b.ID(), err)
			continue
		}
		saved++
	}
	return saved
}
