package catalog

import (
	"context"
	"sync"
)

// Memory 内存管件库, 保持插入顺序
type Memory struct {
	mu    sync.RWMutex
	items []Item
}

// NewMemory 创建内存管件库, items 为空时使用内置数据
func NewMemory(items ...Item) *Memory {
	if len(items) == 0 {
		items = Defaults()
	}
	return &Memory{items: append([]Item(nil), items...)}
}

func (m *Memory) All(ctx context.Context) ([]Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Item(nil), m.items...), nil
}

func (m *Memory) Get(ctx context.Context, id string) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, it := range m.items {
		if it.ID == id {
			return it, nil
		}
	}
	return Item{}, ErrNotFound
}

// Upsert 新增或替换条目, 空 id 时自动生成
func (m *Memory) Upsert(ctx context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsert(item)
	return nil
}

func (m *Memory) upsert(item *Item) {
	if item.ID == "" {
		item.ID = newID()
	}
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
			return
		}
	}
	m.items = append(m.items, *item)
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(id)
	return nil
}

func (m *Memory) remove(id string) {
	kept := m.items[:0]
	for _, it := range m.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	m.items = kept
}
