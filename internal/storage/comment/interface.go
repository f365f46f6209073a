// internal/storage/comment/interface.go
package comment

import (
	"context"

	"github.com/turnDeep/chartnote/internal/core"
)

// Store defines the interface for comment persistence.
type Store interface {
	// Save persists a comment and assigns its ID.
	Save(ctx context.Context, c *core.Comment) error

	// GetByID retrieves a comment by its ID.
	GetByID(ctx context.Context, id int64) (*core.Comment, error)

	// List retrieves comments matching the filter, oldest first.
	List(ctx context.Context, filter ListFilter) ([]core.Comment, error)

	// Count returns the number of comments matching the filter.
	Count(ctx context.Context, filter ListFilter) (int, error)

	// DeleteBefore removes comments anchored strictly before cutoff and
	// returns the removed rows, oldest first, so they can be archived.
	DeleteBefore(ctx context.Context, cutoff int64) ([]core.Comment, error)
}

// ListFilter defines criteria for listing comments. Zero bounds are open.
type ListFilter struct {
	From   int64 // inclusive, UNIX seconds
	To     int64 // inclusive, UNIX seconds
	Limit  int
	Offset int
}

// Matches reports whether a comment satisfies the filter's time window.
func (f ListFilter) Matches(c core.Comment) bool {
	if f.From != 0 && c.Timestamp < f.From {
		return false
	}
	if f.To != 0 && c.Timestamp > f.To {
		return false
	}
	return true
}
