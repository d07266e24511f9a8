// Package index implements the Indexer (C8): it drives a Chunker over
// acquired content and a batch Embedder, then writes through a Storage
// Adapter, producing a (itemsIndexed, chunksCreated, errors) summary.
package index

import (
	"context"
	"fmt"

	"github.com/ragcore/engine/internal/acquire"
	"github.com/ragcore/engine/internal/chunk"
	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/embed"
	"github.com/ragcore/engine/internal/store"
	"golang.org/x/sync/errgroup"
)

// Input describes one caller-supplied thing to index: a text blob, a
// local file, a glob, or any other acquire.Source, plus the chunking
// options and provenance to stamp onto the chunks it yields.
type Input struct {
	Source     acquire.Source
	SourceID   string // deterministic id for this input
	Title      string
	URL        string
	SourceType docmodel.SourceType
	ChunkOpts  chunk.Options
	BatchSize  int
}

// Result is the structured summary Index returns.
type Result struct {
	ItemsIndexed  int
	ChunksCreated int
	Errors        []string
}

// Indexer orchestrates acquisition -> chunk -> batch-embed -> persist.
type Indexer struct {
	Adapter    store.Adapter
	Chunker    chunk.Chunker
	Embedder   embed.Embedder
	OnProgress func(completed, total int)

	// Concurrency caps how many Inputs run at once; 0 means
	// DefaultConcurrency. Each Adapter call still serializes internally
	// (§5), so raising this only overlaps acquisition/chunk/embed work
	// across inputs, not writes to the store.
	Concurrency int
}

// DefaultConcurrency is used when Indexer.Concurrency is left at zero.
const DefaultConcurrency = 4

// New builds an Indexer over the given collaborators.
func New(adapter store.Adapter, chunker chunk.Chunker, embedder embed.Embedder) *Indexer {
	return &Indexer{Adapter: adapter, Chunker: chunker, Embedder: embedder}
}

// Index runs every Input concurrently (bounded by Concurrency): one
// input's acquisition, chunking or embedding failure is collected into
// Result.Errors and does not abort the rest. Within one input, a
// failing acquired item (e.g. one unreadable file inside a glob) is
// likewise collected and skipped, while the input's remaining items
// still commit together in a single insert_batch call. Cancelling ctx
// propagates to every in-flight input.
func (ix *Indexer) Index(ctx context.Context, inputs []Input) Result {
	type outcome struct {
		n    int
		errs []string
	}
	outcomes := make([]outcome, len(inputs))

	concurrency := ix.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			n, errs := ix.indexOne(gctx, in)
			outcomes[i] = outcome{n: n, errs: errs}
			return nil
		})
	}
	_ = g.Wait()

	var result Result
	for _, o := range outcomes {
		result.Errors = append(result.Errors, o.errs...)
		if o.n > 0 {
			result.ItemsIndexed++
			result.ChunksCreated += o.n
		}
	}
	return result
}

func (ix *Indexer) indexOne(ctx context.Context, in Input) (int, []string) {
	items, err := in.Source.Acquire(ctx)
	if err != nil {
		return 0, []string{err.Error()}
	}

	var errs []string
	var allChunks []docmodel.Chunk
	for _, item := range items {
		chunks, err := ix.chunkAndEmbed(ctx, in, item, len(items) == 1)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		allChunks = append(allChunks, chunks...)
	}

	if len(allChunks) == 0 {
		return 0, append(errs, "No chunks generated from text")
	}

	if _, err := ix.Adapter.InsertBatch(ctx, allChunks); err != nil {
		return 0, append(errs, err.Error())
	}
	return len(allChunks), errs
}

// chunkAndEmbed chunks and embeds one acquired item, stamping it with a
// deterministic sourceId: the Input's own id when it acquired exactly
// one item (the common text/file/snippet case), or that id qualified by
// the item's own path when one Input fans out to several items (a glob
// or a repository acquisition), so each file still gets its own Source
// row.
func (ix *Indexer) chunkAndEmbed(ctx context.Context, in Input, item acquire.Item, singleItem bool) ([]docmodel.Chunk, error) {
	sourceID := in.SourceID
	if !singleItem {
		sourceID = fmt.Sprintf("%s:%s", in.SourceID, item.Path)
	}

	boundaries, err := ix.Chunker.Chunk(ctx, &chunk.FileInput{Path: item.Path, Content: item.Content}, in.ChunkOpts)
	if err != nil {
		return nil, err
	}
	if len(boundaries) == 0 {
		return nil, nil
	}

	texts := make([]string, len(boundaries))
	for i, b := range boundaries {
		texts[i] = b.Text
	}
	embeddings, err := ix.Embedder.EmbedBatch(ctx, texts, embed.BatchOptions{
		BatchSize:  in.BatchSize,
		OnProgress: ix.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = item.Title
	}
	url := in.URL
	if url == "" {
		url = item.URL
	}

	total := len(boundaries)
	out := make([]docmodel.Chunk, total)
	for i, b := range boundaries {
		md := docmodel.Metadata{
			docmodel.MetaSourceID:    sourceID,
			docmodel.MetaChunkIndex:  i,
			docmodel.MetaTotalChunks: total,
		}
		// title/url/sourceType are carried by every chunk, not just the
		// first, so a sourceType filter pushed down onto the documents
		// table (internal/filter) matches every chunk of a Source, not
		// only chunk 0. originalContent stays chunk-0-only; it lives on
		// the Source row, not the per-chunk metadata.
		if title != "" {
			md[docmodel.MetaTitle] = title
		}
		if url != "" {
			md[docmodel.MetaURL] = url
		}
		if in.SourceType != "" {
			md[docmodel.MetaSourceType] = string(in.SourceType)
		}
		if i == 0 {
			md[docmodel.MetaOriginalContent] = string(item.Content)
		}
		out[i] = docmodel.Chunk{
			SourceID:    sourceID,
			Content:     b.Text,
			Embedding:   embeddings[i],
			Metadata:    md,
			ChunkIndex:  i,
			TotalChunks: total,
		}
	}
	return out, nil
}
