// internal/storage/archive/archiver.go
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/turnDeep/chartnote/internal/core"
)

// Batch is one archived chunk of comments with the window it covers.
type Batch struct {
	ID         string         `json:"id"`
	From       int64          `json:"from"`
	To         int64          `json:"to"`
	ArchivedAt time.Time      `json:"archived_at"`
	Comments   []core.Comment `json:"comments"`
}

// Archiver serializes expired comments into batches on a Backend. Keys are
// date-partitioned so a batch can be located by the day it was written.
type Archiver struct {
	backend Backend
}

// NewArchiver creates an archiver over the given backend.
func NewArchiver(backend Backend) *Archiver {
	return &Archiver{backend: backend}
}

// Archive writes the comments as one batch and returns its key. An empty
// input writes nothing.
func (a *Archiver) Archive(ctx context.Context, comments []core.Comment) (string, error) {
	if len(comments) == 0 {
		return "", nil
	}

	batch := Batch{
		ID:         uuid.New().String(),
		From:       comments[0].Timestamp,
		To:         comments[len(comments)-1].Timestamp,
		ArchivedAt: time.Now().UTC(),
		Comments:   comments,
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("marshaling batch: %w", err)
	}

	key := fmt.Sprintf("comments/%s/%s.json", batch.ArchivedAt.Format("2006-01-02"), batch.ID)
	if err := a.backend.Put(ctx, key, data); err != nil {
		return "", core.WrapError(core.ErrStorageFailed, err)
	}
	return key, nil
}

// Load reads a batch back from the backend.
func (a *Archiver) Load(ctx context.Context, key string) (*Batch, error) {
	data, err := a.backend.Get(ctx, key)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("unmarshaling batch: %w", err)
	}
	return &batch, nil
}

// Keys lists all archived batch keys.
func (a *Archiver) Keys(ctx context.Context) ([]string, error) {
	return a.backend.List(ctx, "comments/")
}
