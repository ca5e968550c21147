package item

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"babelbox/internal/apperr"
)

// Memory is the degraded-mode Repository used while the store is
// unreachable. Contents live only in process memory: nothing written here
// survives a restart or reaches the store when it comes back.
type Memory struct {
	mu     sync.RWMutex
	items  []Item
	nextID uint64
}

func NewMemory(seed []Item) *Memory {
	m := &Memory{nextID: 1}
	for _, it := range seed {
		if it.ID == 0 {
			it.ID = m.nextID
		}
		if it.ID >= m.nextID {
			m.nextID = it.ID + 1
		}
		m.items = append(m.items, it)
	}
	return m
}

func (m *Memory) List(_ context.Context, f Filter, offset, limit int) ([]Item, int64, error) {
	m.mu.RLock()
	var matched []Item
	for _, it := range m.items {
		if f.Category != "" && it.Category != f.Category {
			continue
		}
		if f.Title != "" && !strings.Contains(it.Title, f.Title) {
			continue
		}
		matched = append(matched, it)
	}
	m.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if offset < 0 || limit < 1 || offset >= len(matched) {
		return []Item{}, total, nil
	}
	end := len(matched)
	if limit < end-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (m *Memory) Get(_ context.Context, id uint64) (Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.items[i], nil
	}
	return Item{}, apperr.NotFound("item")
}

func (m *Memory) Create(_ context.Context, it *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = m.nextID
	m.nextID++
	m.items = append(m.items, *it)
	return nil
}

func (m *Memory) Save(_ context.Context, it *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(it.ID)
	if i < 0 {
		return apperr.NotFound("item")
	}
	m.items[i] = *it
	return nil
}

func (m *Memory) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return apperr.NotFound("item")
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *Memory) index(id uint64) int {
	for i := range m.items {
		if m.items[i].ID == id {
			return i
		}
	}
	return -1
}

// SampleItems is the static collection served while the store is down.
func SampleItems() []Item {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(id uint64, title, category, content string) Item {
		at := base.Add(time.Duration(id) * time.Hour)
		return Item{ID: id, Title: title, Content: content, Category: category, CreatedAt: at, UpdatedAt: at}
	}
	return []Item{
		mk(1, "Vue Diff Algorithm", "Frontend Frameworks",
			"Vue's diff works on the virtual DOM, compares nodes level by level and uses keys to locate nodes quickly, patching only what changed."),
		mk(2, "Rules of React Hooks", "Frontend Frameworks",
			"1. Call hooks only at the top level of a function component.\n2. Call hooks only from React function components or custom hooks.\n3. Never call hooks inside loops, conditions or nested functions."),
		mk(3, "Node.js Event Loop", "Backend Development",
			"The event loop runs in six phases: timers, pending callbacks, idle/prepare, poll, check (setImmediate) and close callbacks."),
		mk(4, "Binary Search", "Algorithms",
			"Binary search works on a sorted array and halves the search interval on every step, giving O(log n) time."),
	}
}
