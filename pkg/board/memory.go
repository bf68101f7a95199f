package board

import (
	"context"
	"sync"
)

// Memory is an in-process board.
type Memory struct {
	mu    sync.RWMutex
	items []Item
}

// NewMemory returns an empty in-process board.
func NewMemory() *Memory {
	return &Memory{}
}

// Append implements Board.
func (m *Memory) Append(ctx context.Context, item Item) error {
	m.mu.Lock()
	m.items = append(m.items, item)
	m.mu.Unlock()
	emitAppend(ctx, "memory")
	return nil
}

// Clear implements Board.
func (m *Memory) Clear(ctx context.Context) (int, error) {
	m.mu.Lock()
	n := len(m.items)
	m.items = nil
	m.mu.Unlock()
	emitClear(ctx, "memory", n)
	return n, nil
}

// Items implements Board.
func (m *Memory) Items(context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

// Len implements Board.
func (m *Memory) Len(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

var _ Board = (*Memory)(nil)
