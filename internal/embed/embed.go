// Package embed defines the embedding collaborator contract: an
// external service that turns text into a fixed-dimension vector,
// batch-friendly, with rate-limit and retry policy left entirely to
// the implementation. It also ships StaticEmbedder, a deterministic,
// dependency-free embedder used by tests and as the "static" example
// backend for callers with no model of their own to wire in.
package embed

import "context"

// DefaultBatchSize is the batch size EmbedBatch uses when opts.BatchSize
// is left at zero, matching indexing.batchSize's documented default.
const DefaultBatchSize = 100

// BatchOptions parameterizes EmbedBatch.
type BatchOptions struct {
	// BatchSize caps how many texts are embedded per underlying call;
	// 0 means DefaultBatchSize.
	BatchSize int
	// OnProgress, if set, is invoked once per batch boundary with the
	// running count of texts embedded so far and the total.
	OnProgress func(completed, total int)
}

// Embedder generates vector embeddings for text. Every vector it
// returns has exactly Dimensions() elements.
type Embedder interface {
	// Embed generates the embedding for one string.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds texts in order, batched per opts.BatchSize,
	// invoking opts.OnProgress at each batch boundary.
	EmbedBatch(ctx context.Context, texts []string, opts BatchOptions) ([][]float32, error)

	// Dimensions returns the fixed embedding width this Embedder
	// produces.
	Dimensions() int
}

// EmbedInBatches is the batching helper every Embedder's EmbedBatch can
// share: it calls embedOne for each text but only surfaces progress at
// batch boundaries, so implementations don't each reinvent the loop.
func EmbedInBatches(ctx context.Context, texts []string, opts BatchOptions, embedOne func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	out := make([][]float32, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}
		for i := start; i < end; i++ {
			vec, err := embedOne(ctx, texts[i])
			if err != nil {
				return nil, err
			}
			out[i] = vec
		}
		if opts.OnProgress != nil {
			opts.OnProgress(end, len(texts))
		}
	}
	return out, nil
}
