// internal/storage/comment/memory.go
package comment

import (
	"context"
	"sort"
	"sync"

	"github.com/turnDeep/chartnote/internal/core"
)

// MemoryStore is an in-memory comment store, used in tests and as the
// default when no database path is configured.
type MemoryStore struct {
	comments []core.Comment
	maxSize  int
	nextID   int64
	mu       sync.RWMutex
}

// NewMemoryStore creates an in-memory store with max capacity. A maxSize
// of zero or less means unbounded.
func NewMemoryStore(maxSize int) *MemoryStore {
	if maxSize < 0 {
		maxSize = 0
	}
	return &MemoryStore{
		comments: make([]core.Comment, 0, maxSize),
		maxSize:  maxSize,
		nextID:   1,
	}
}

// Save adds a comment and assigns its ID.
func (m *MemoryStore) Save(ctx context.Context, c *core.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextID
	m.nextID++
	m.comments = append(m.comments, *c)

	// Trim oldest when over capacity.
	if m.maxSize > 0 && len(m.comments) > m.maxSize {
		m.comments = m.comments[len(m.comments)-m.maxSize:]
	}
	return nil
}

// GetByID retrieves a comment by ID.
func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*core.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.comments {
		if m.comments[i].ID == id {
			c := m.comments[i]
			return &c, nil
		}
	}
	return nil, core.ErrCommentNotFound
}

// List returns comments matching the filter, oldest first.
func (m *MemoryStore) List(ctx context.Context, filter ListFilter) ([]core.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]core.Comment, 0)
	for _, c := range m.comments {
		if filter.Matches(c) {
			result = append(result, c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []core.Comment{}, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result, nil
}

// Count returns the count of matching comments.
func (m *MemoryStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.comments {
		if filter.Matches(c) {
			count++
		}
	}
	return count, nil
}

// DeleteBefore removes comments anchored strictly before cutoff.
func (m *MemoryStore) DeleteBefore(ctx context.Context, cutoff int64) ([]core.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed, kept []core.Comment
	for _, c := range m.comments {
		if c.Timestamp < cutoff {
			removed = append(removed, c)
		} else {
			kept = append(kept, c)
		}
	}
	m.comments = kept

	sort.SliceStable(removed, func(i, j int) bool {
		return removed[i].Timestamp < removed[j].Timestamp
	})
	return removed, nil
}
