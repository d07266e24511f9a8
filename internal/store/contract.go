// Package store defines the Storage Adapter Contract every backend must
// satisfy, plus two reference implementations: an in-memory backend
// (cosine similarity over an associative container) and a SQL+vector
// backend (an embedded SQL engine with a k-NN vector virtual table).
package store

import (
	"context"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/filter"
)

// SearchOptions parameterizes Adapter.Search.
type SearchOptions struct {
	K      int
	Filter filter.Filter
}

// ListOptions parameterizes Adapter.List.
type ListOptions struct {
	Limit  int
	Offset int
	Filter filter.Filter
}

// CountOptions parameterizes Adapter.Count.
type CountOptions struct {
	Filter filter.Filter
}

// Partial describes the fields an Update call wishes to change; nil
// fields are left untouched.
type Partial struct {
	Content   *string
	Embedding []float32 // nil means "unchanged", non-nil replaces it
	Metadata  docmodel.Metadata
}

// Info describes a backend instance for diagnostics.
type Info struct {
	Provider     string
	Version      string
	Capabilities []string
}

// Adapter is the capability set every storage backend implements. Every
// call on an uninitialized or closed adapter fails with
// ragerr.KindNotInitialized, except Initialize, Close and Info.
type Adapter interface {
	// Initialize is idempotent: the first call prepares the backend,
	// every subsequent call is a no-op.
	Initialize(ctx context.Context) error

	// Insert validates the embedding dimension and upserts by
	// ChunkID, returning the persisted id.
	Insert(ctx context.Context, c docmodel.Chunk) (string, error)

	// InsertBatch inserts in order; a failing element aborts the whole
	// batch and leaves the store unchanged.
	InsertBatch(ctx context.Context, cs []docmodel.Chunk) ([]string, error)

	// Get returns the chunk with its embedding and reconstructed
	// metadata, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*docmodel.Chunk, error)

	// Update fails with ragerr.KindNotFound if id is absent.
	Update(ctx context.Context, id string, p Partial) error

	// Delete fails with ragerr.KindNotFound if id is absent.
	Delete(ctx context.Context, id string) error

	// DeleteBatch is best-effort: any NotFound aborts the batch
	// without partial effect.
	DeleteBatch(ctx context.Context, ids []string) error

	// Search returns up to opts.K hits sorted by descending score.
	Search(ctx context.Context, embedding []float32, opts SearchOptions) ([]docmodel.Hit, error)

	// List returns chunks ordered by CreatedAt descending.
	List(ctx context.Context, opts ListOptions) ([]docmodel.Chunk, error)

	// Count returns the cardinality matching opts.Filter.
	Count(ctx context.Context, opts CountOptions) (int, error)

	// Close releases resources; subsequent operations fail with
	// ragerr.KindNotInitialized.
	Close(ctx context.Context) error

	// Info describes the backend.
	Info() Info
}
