// internal/storage/archive/interface.go
package archive

import "context"

// Backend defines the interface for cold-storage backends holding archived
// comment batches.
type Backend interface {
	// Put stores data under the given key.
	Put(ctx context.Context, key string, data []byte) error

	// Get retrieves the data stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns all keys with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the data stored under key.
	Delete(ctx context.Context, key string) error
}
