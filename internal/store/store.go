// Package store keeps board snapshots between process restarts and across instances.
// None of the backends promise durability: a lost snapshot only means a fresh board.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/playmatatu/tactics/internal/models"
)

var ErrNotFound = errors.New("board snapshot not found")

// Store saves and loads board snapshots by board ID.
type Store interface {
	Save(ctx context.Context, snap models.BoardSnapshot) error
	Load(ctx context.Context, id string) (models.BoardSnapshot, error)
	Delete(ctx context.Context, id string) error
}

// Memory keeps encoded snapshots in a map, so loaded values never alias saved ones.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Save(_ context.Context, snap models.BoardSnapshot) error {
	if snap.ID == "" {
		return errors.New("snapshot id required")
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	m.mu.Lock()
	m.data[snap.ID] = b
	m.mu.Unlock()
	return nil
}

func (m *Memory) Load(_ context.Context, id string) (models.BoardSnapshot, error) {
	m.mu.RLock()
	b, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return models.BoardSnapshot{}, ErrNotFound
	}
	return decode(b)
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored snapshots.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func decode(b []byte) (models.BoardSnapshot, error) {
	var snap models.BoardSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return models.BoardSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}
