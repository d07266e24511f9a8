package docmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragcore/engine/internal/ragerr"
)

func TestEnsureDimensionRejectsMismatch(t *testing.T) {
	err := EnsureDimension([]float32{1, 2, 3}, 4)
	require.Error(t, err)
	assert.True(t, ragerr.Is(err, ragerr.KindDimensionMismatch))

	assert.NoError(t, EnsureDimension([]float32{1, 2, 3, 4}, 4))
}

func TestGenerateIDPreservesCallerValue(t *testing.T) {
	assert.Equal(t, "my-id", GenerateID("my-id"))
	assert.NotEmpty(t, GenerateID(""))
	assert.NotEqual(t, GenerateID(""), GenerateID(""))
}

func TestContentChunkIDStableAcrossCalls(t *testing.T) {
	id1 := ContentChunkID("src-1", 0, "hello world")
	id2 := ContentChunkID("src-1", 0, "hello world")
	assert.Equal(t, id1, id2)

	id3 := ContentChunkID("src-1", 1, "hello world")
	assert.NotEqual(t, id1, id3)
}
