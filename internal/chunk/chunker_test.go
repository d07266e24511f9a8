package chunk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_JavaScriptBoundaries(t *testing.T) {
	p := NewPipeline()
	defer p.Dispose()

	src := "function a(){}\nconst b = () => {}"
	boundaries, err := p.Chunk(context.Background(), &FileInput{
		Path:    "sample.js",
		Content: []byte(src),
	}, Options{PreserveBoundaries: true})
	require.NoError(t, err)
	require.Len(t, boundaries, 2)

	assert.Equal(t, "function_declaration", boundaries[0].Type)
	assert.Equal(t, "a", boundaries[0].Name)
	assert.Equal(t, "arrow_function", boundaries[1].Type)
	assert.Equal(t, "b", boundaries[1].Name)

	assert.Equal(t, src, boundaries[0].Text+"\n"+boundaries[1].Text)
}

func TestPipeline_NoNestedBoundaries(t *testing.T) {
	p := NewPipeline()
	defer p.Dispose()

	src := `package sample

type T struct{}

func (t T) Method() {
	inner := func() {}
	_ = inner
}
`
	boundaries, err := p.Chunk(context.Background(), &FileInput{
		Path:    "sample.go",
		Content: []byte(src),
	}, Options{PreserveBoundaries: true})
	require.NoError(t, err)

	for i := range boundaries {
		for j := range boundaries {
			if i == j {
				continue
			}
			a, b := boundaries[i], boundaries[j]
			disjoint := a.EndOffset <= b.StartOffset || b.EndOffset <= a.StartOffset
			equal := a.StartOffset == b.StartOffset && a.EndOffset == b.EndOffset
			assert.True(t, disjoint || equal, "boundaries must never strictly contain one another")
		}
	}
}

func TestPipeline_FallsBackForUnsupportedExtension(t *testing.T) {
	p := NewPipeline()
	defer p.Dispose()

	boundaries, err := p.Chunk(context.Background(), &FileInput{
		Path:    "notes.unknownext",
		Content: []byte("hello world, this has no parser"),
	}, Options{PreserveBoundaries: true, ChunkSize: 10, ChunkOverlap: 2})
	require.NoError(t, err)
	require.NotEmpty(t, boundaries)
	assert.Equal(t, "fallback", boundaries[0].Type)

	// A second call returns fallback chunks again, silently.
	boundaries2, err := p.Chunk(context.Background(), &FileInput{
		Path:    "notes2.unknownext",
		Content: []byte("more text without a parser available"),
	}, Options{PreserveBoundaries: true, ChunkSize: 10, ChunkOverlap: 2})
	require.NoError(t, err)
	require.NotEmpty(t, boundaries2)
	assert.Equal(t, "fallback", boundaries2[0].Type)
}

func TestPipeline_WithoutPreserveBoundariesUsesContentSizing(t *testing.T) {
	p := NewPipeline()
	defer p.Dispose()

	boundaries, err := p.Chunk(context.Background(), &FileInput{
		Path:    "main.go",
		Content: []byte("package main\n\nfunc main() {}\n"),
	}, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, boundaries)
	assert.Equal(t, "fallback", boundaries[0].Type)
}
