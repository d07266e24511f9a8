package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Dimensions(t *testing.T) {
	e := NewStatic(16)
	assert.Equal(t, 16, e.Dimensions())
}

func TestStatic_Deterministic(t *testing.T) {
	e := NewStatic(32)
	v1, err := e.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Len(t, v1, 32)
}

func TestStatic_EmptyText(t *testing.T) {
	e := NewStatic(8)
	v, err := e.Embed(context.Background(), "   ")
	require.NoError(t, err)
	assert.Len(t, v, 8)
	for _, f := range v {
		assert.Equal(t, float32(0), f)
	}
}

func TestStatic_EmbedBatchProgress(t *testing.T) {
	e := NewStatic(8)
	var progressed []int
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c", "d", "e"}, BatchOptions{
		BatchSize: 2,
		OnProgress: func(done, total int) {
			progressed = append(progressed, done)
			assert.Equal(t, 5, total)
		},
	})
	require.NoError(t, err)
	assert.Len(t, vecs, 5)
	assert.Equal(t, []int{2, 4, 5}, progressed)
}
