package index

import (
	"context"
	"testing"

	"github.com/ragcore/engine/internal/acquire"
	"github.com/ragcore/engine/internal/chunk"
	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/embed"
	"github.com/ragcore/engine/internal/filter"
	"github.com/ragcore/engine/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndexer(t *testing.T) (*Indexer, store.Adapter) {
	t.Helper()
	adapter := store.NewMemory(store.MemoryConfig{Dimension: 16})
	require.NoError(t, adapter.Initialize(context.Background()))
	embedder := embed.NewStatic(16)
	pipeline := chunk.NewPipeline()
	return New(adapter, pipeline, embedder), adapter
}

func TestIndexer_SingleChunkStampsProvenance(t *testing.T) {
	ix, adapter := newTestIndexer(t)

	result := ix.Index(context.Background(), []Input{{
		Source:     acquire.TextSource{ID: "S1", Text: "ORIG"},
		SourceID:   "S1",
		SourceType: docmodel.SourceText,
		ChunkOpts:  chunk.Options{ChunkSize: 1000, ChunkOverlap: 0},
	}})

	require.Empty(t, result.Errors)
	assert.Equal(t, 1, result.ItemsIndexed)
	assert.Equal(t, 1, result.ChunksCreated)

	listed, err := adapter.List(context.Background(), store.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "S1", listed[0].Metadata[docmodel.MetaSourceID])
	assert.Equal(t, "ORIG", listed[0].Metadata[docmodel.MetaOriginalContent])
}

func TestIndexer_MultiChunkStampsSourceTypeOnEveryChunk(t *testing.T) {
	ix, adapter := newTestIndexer(t)

	result := ix.Index(context.Background(), []Input{{
		Source:     acquire.TextSource{ID: "S4", Text: "aaaaaaaaaa bbbbbbbbbb cccccccccc dddddddddd"},
		SourceID:   "S4",
		SourceType: docmodel.SourceGist,
		ChunkOpts:  chunk.Options{ChunkSize: 10, ChunkOverlap: 0},
	}})

	require.Empty(t, result.Errors)
	require.Greater(t, result.ChunksCreated, 1)

	listed, err := adapter.List(context.Background(), store.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, result.ChunksCreated)
	for _, c := range listed {
		assert.Equal(t, string(docmodel.SourceGist), c.Metadata[docmodel.MetaSourceType])
	}

	hits, err := adapter.Search(context.Background(), listed[len(listed)-1].Embedding, store.SearchOptions{
		K:      10,
		Filter: filter.Filter{docmodel.MetaSourceType: string(docmodel.SourceGist)},
	})
	require.NoError(t, err)
	assert.Len(t, hits, result.ChunksCreated)
}

func TestIndexer_EmptyInputProducesNoChunksError(t *testing.T) {
	ix, _ := newTestIndexer(t)

	result := ix.Index(context.Background(), []Input{{
		Source:   acquire.TextSource{ID: "S2", Text: ""},
		SourceID: "S2",
	}})

	assert.Equal(t, 0, result.ItemsIndexed)
	assert.Equal(t, 0, result.ChunksCreated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "No chunks generated from text", result.Errors[0])
}

type failingSource struct{}

func (failingSource) Acquire(ctx context.Context) ([]acquire.Item, error) {
	return nil, assert.AnError
}

func TestIndexer_OneFailingInputDoesNotAbortOthers(t *testing.T) {
	ix, _ := newTestIndexer(t)

	result := ix.Index(context.Background(), []Input{
		{Source: failingSource{}, SourceID: "bad"},
		{Source: acquire.TextSource{ID: "S3", Text: "hello world"}, SourceID: "S3"},
	})

	assert.Equal(t, 1, result.ItemsIndexed)
	assert.Equal(t, 1, result.ChunksCreated)
	require.Len(t, result.Errors, 1)
}
