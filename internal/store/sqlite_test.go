package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/ragerr"
)

func newReadySQLite(t *testing.T) *SQLite {
	t.Helper()
	s := NewSQLite(SQLiteConfig{Path: "file::memory:?cache=shared", Dimension: 3})
	require.NoError(t, s.Initialize(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSQLiteInsertGetDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	id, err := s.Insert(ctx, docmodel.Chunk{Content: "hello", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, []float32{1, 0, 0}, got.Embedding, "round-tripped embedding must equal the inserted one element-wise")

	require.NoError(t, s.Delete(ctx, id))
	got, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteUpsertReclaimsOrphanVector(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	id, err := s.Insert(ctx, docmodel.Chunk{ChunkID: "fixed-id", Content: "v1", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)

	_, err = s.Insert(ctx, docmodel.Chunk{ChunkID: id, Content: "v2", Embedding: []float32{0, 1, 0}})
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Content)

	var vecCount int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vec_documents").Scan(&vecCount))
	assert.Equal(t, 1, vecCount, "upsert must reclaim the old vector row, not leave it orphaned")
}

// S4 from the spec: a Source is created lazily on the first chunk and
// not duplicated by subsequent chunks sharing the same sourceId.
func TestSQLiteSourceCreatedOnceScenarioS4(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	_, err := s.Insert(ctx, docmodel.Chunk{
		ChunkID:  "chunk0",
		SourceID: "S1",
		Content:  "part 1",
		Embedding: []float32{1, 0, 0},
		Metadata: docmodel.Metadata{
			docmodel.MetaSourceID:       "S1",
			docmodel.MetaChunkIndex:     0,
			docmodel.MetaOriginalContent: "ORIG",
		},
	})
	require.NoError(t, err)

	_, err = s.Insert(ctx, docmodel.Chunk{
		ChunkID:  "chunk1",
		SourceID: "S1",
		Content:  "part 2",
		Embedding: []float32{0, 1, 0},
		Metadata: docmodel.Metadata{
			docmodel.MetaSourceID:   "S1",
			docmodel.MetaChunkIndex: 1,
		},
	})
	require.NoError(t, err)

	var sourceCount int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources WHERE source_id = ?", "S1").Scan(&sourceCount))
	assert.Equal(t, 1, sourceCount)

	got, err := s.Get(ctx, "chunk0")
	require.NoError(t, err)
	assert.Equal(t, "ORIG", got.Metadata[docmodel.MetaOriginalContent])
	assert.Equal(t, "S1", got.Metadata[docmodel.MetaSourceID])
}

func TestSQLiteDeleteCascadesSourceWhenLastChunkRemoved(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	_, err := s.Insert(ctx, docmodel.Chunk{
		ChunkID:  "chunk0",
		SourceID: "S1",
		Embedding: []float32{1, 0, 0},
		Metadata: docmodel.Metadata{
			docmodel.MetaSourceID:       "S1",
			docmodel.MetaChunkIndex:     0,
			docmodel.MetaOriginalContent: "ORIG",
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "chunk0"))

	var sourceCount int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources WHERE source_id = ?", "S1").Scan(&sourceCount))
	assert.Equal(t, 0, sourceCount)
}

func TestSQLiteSearchFilterScenarioS2(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	insert := func(id string, vec []float32, sourceType string) {
		_, err := s.Insert(ctx, docmodel.Chunk{
			ChunkID:   id,
			Embedding: vec,
			Metadata:  docmodel.Metadata{docmodel.MetaSourceType: sourceType},
		})
		require.NoError(t, err)
	}
	insert("c1", []float32{1, 0, 0}, "gist")
	insert("c2", []float32{0, 1, 0}, "file")
	insert("c3", []float32{0, 0, 1}, "file")

	hits, err := s.Search(ctx, []float32{1, 0, 0}, SearchOptions{K: 10, Filter: map[string]any{"sourceType": "gist"}})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c1", hits[0].ChunkID)
}

func TestSQLiteSearchReturnsEmbedding(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	_, err := s.Insert(ctx, docmodel.Chunk{ChunkID: "c1", Content: "hello", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)

	hits, err := s.Search(ctx, []float32{1, 0, 0}, SearchOptions{K: 1})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, []float32{1, 0, 0}, hits[0].Embedding)
}

func TestSQLiteListReturnsEmbedding(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	_, err := s.Insert(ctx, docmodel.Chunk{ChunkID: "c1", Content: "hello", Embedding: []float32{1, 0, 0}})
	require.NoError(t, err)

	listed, err := s.List(ctx, ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, []float32{1, 0, 0}, listed[0].Embedding)
}

func TestSQLiteSearchFilterMatchesEveryChunkOfMultiChunkSource(t *testing.T) {
	ctx := context.Background()
	s := newReadySQLite(t)

	for i, vec := range [][]float32{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		md := docmodel.Metadata{
			docmodel.MetaSourceID:   "S1",
			docmodel.MetaChunkIndex: i,
			docmodel.MetaSourceType: "gist",
		}
		if i == 0 {
			md[docmodel.MetaOriginalContent] = "ORIG"
		}
		_, err := s.Insert(ctx, docmodel.Chunk{
			ChunkID:   fmt.Sprintf("chunk%d", i),
			SourceID:  "S1",
			Content:   fmt.Sprintf("part %d", i),
			Embedding: vec,
			Metadata:  md,
		})
		require.NoError(t, err)
	}

	hits, err := s.Search(ctx, []float32{1, 0, 0}, SearchOptions{
		K:      10,
		Filter: map[string]any{"sourceType": "gist"},
	})
	require.NoError(t, err)
	require.Len(t, hits, 3, "sourceType must be stamped onto every chunk of a multi-chunk source, not just chunk 0")
	for _, h := range hits {
		assert.Equal(t, "gist", h.Metadata[docmodel.MetaSourceType])
	}
}

func TestSQLiteUpdateNotFound(t *testing.T) {
	s := newReadySQLite(t)
	err := s.Update(context.Background(), "missing", Partial{})
	require.Error(t, err)
	assert.True(t, ragerr.Is(err, ragerr.KindNotFound))
}

func TestSQLiteNotInitializedBeforeInitialize(t *testing.T) {
	s := NewSQLite(SQLiteConfig{Path: "file::memory:?cache=shared2", Dimension: 3})
	_, err := s.Get(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, ragerr.Is(err, ragerr.KindNotInitialized))
}
