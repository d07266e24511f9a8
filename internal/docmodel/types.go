// Package docmodel holds the typed records shared by every storage
// backend and the retriever: Source, Chunk, Hit, and the validation
// helpers the rest of the core calls before trusting caller input.
package docmodel

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ragcore/engine/internal/ragerr"
)

// Metadata keys reserved by the data model; callers may read these but
// the core owns writing them.
const (
	MetaSourceID        = "sourceId"
	MetaChunkIndex      = "chunkIndex"
	MetaTotalChunks     = "totalChunks"
	MetaTitle           = "title"
	MetaURL             = "url"
	MetaSourceType      = "sourceType"
	MetaCreatedAt       = "createdAt"
	MetaUpdatedAt       = "updatedAt"
	MetaOriginalContent = "originalContent"
)

// SourceType tags the origin of a Source.
type SourceType string

const (
	SourceGist   SourceType = "gist"
	SourceGitHub SourceType = "github"
	SourceFile   SourceType = "file"
	SourceText   SourceType = "text"
)

// Source represents one ingested origin: a text blob, a file path, a
// repository file, or a hosted snippet. Its original content is
// immutable once created.
type Source struct {
	SourceID        string
	OriginalContent string
	Title           string
	URL             string
	SourceType      SourceType
	CreatedAt       time.Time
}

// Metadata is the arbitrary key/value map a Chunk carries. Values are
// strings, numbers, booleans, nil, or nested maps of the same shape.
type Metadata map[string]any

// Chunk is a fragment of exactly one Source's content, holding its own
// embedding in Embedding.
type Chunk struct {
	ChunkID     string
	SourceID    string // empty for transient in-memory use
	Content     string
	Embedding   []float32
	Metadata    Metadata
	ChunkIndex  int
	TotalChunks int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Hit is a Chunk surfaced by a search, carrying the similarity score the
// backend computed.
type Hit struct {
	Chunk
	Score float64
}

// EnsureDimension fails with KindDimensionMismatch unless vec has
// exactly d elements.
func EnsureDimension(vec []float32, d int) error {
	if len(vec) != d {
		return ragerr.New(ragerr.KindDimensionMismatch,
			"embedding dimension mismatch").
			WithDetail("expected", strconv.Itoa(d)).
			WithDetail("got", strconv.Itoa(len(vec)))
	}
	return nil
}

// GenerateID returns maybe unchanged if non-empty, otherwise a freshly
// minted opaque id.
func GenerateID(maybe string) string {
	if maybe != "" {
		return maybe
	}
	return uuid.NewString()
}

// ContentChunkID derives a stable, content-addressable chunk id from a
// source id and chunk index plus the chunk's own text, so re-indexing
// unchanged content reproduces the same id.
func ContentChunkID(sourceID string, chunkIndex int, content string) string {
	h := sha256.Sum256([]byte(content))
	inner := hex.EncodeToString(h[:8])
	outer := sha256.Sum256([]byte(sourceID + ":" + strconv.Itoa(chunkIndex) + ":" + inner))
	return hex.EncodeToString(outer[:8])
}
