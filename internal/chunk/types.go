// Package chunk implements the chunking pipeline: a concrete-syntax-tree
// aware chunker with per-language boundary extraction, a deterministic
// length/overlap fallback, and content-type-driven chunk sizing.
package chunk

import (
	"context"
)

// FileInput is one file (or text blob) handed to the chunker.
type FileInput struct {
	Path    string
	Content []byte
}

// Boundary is one chunk emitted by the CST-aware chunker: the outermost
// occurrence of a boundary node type, carrying its CST node type, an
// optional extracted name, its byte offsets in the source, and its
// text.
type Boundary struct {
	Type        string
	Name        string
	StartOffset int
	EndOffset   int
	Text        string
}

// Chunker splits a file into Boundaries (or length/overlap fallback
// chunks shaped the same way, with Type == "fallback").
type Chunker interface {
	Chunk(ctx context.Context, file *FileInput, opts Options) ([]Boundary, error)
}

// Options pins explicit size/overlap, overriding automatic
// content-type-driven sizing; and requests CST boundary extraction when
// PreserveBoundaries is true and a parser is available.
type Options struct {
	ChunkSize          int
	ChunkOverlap       int
	PreserveBoundaries bool
}
