package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackChunk_CoversInput(t *testing.T) {
	text := strings.Repeat("abcdefghij", 50) // 500 runes
	boundaries := FallbackChunk(text, 120, 20)
	require.NotEmpty(t, boundaries)

	// Concatenating consecutive chunks with the overlap removed
	// reproduces the original.
	var rebuilt strings.Builder
	rebuilt.WriteString(boundaries[0].Text)
	for i := 1; i < len(boundaries); i++ {
		rebuilt.WriteString(boundaries[i].Text[20:])
	}
	assert.Equal(t, text, rebuilt.String())

	for i, b := range boundaries {
		if i < len(boundaries)-1 {
			assert.Equal(t, 120, len([]rune(b.Text)))
		}
		assert.Equal(t, "fallback", b.Type)
	}
}

func TestFallbackChunk_ZeroOverlap(t *testing.T) {
	text := strings.Repeat("x", 25)
	boundaries := FallbackChunk(text, 10, 0)
	require.Len(t, boundaries, 3)
	assert.Equal(t, "xxxxxxxxxx", boundaries[0].Text)
	assert.Equal(t, "xxxxxxxxxx", boundaries[1].Text)
	assert.Equal(t, "xxxxx", boundaries[2].Text)
}

func TestFallbackChunk_EmptyText(t *testing.T) {
	assert.Nil(t, FallbackChunk("", 10, 0))
}

func TestFallbackChunk_InvalidOverlapFallsBackToZero(t *testing.T) {
	text := strings.Repeat("y", 15)
	boundaries := FallbackChunk(text, 10, 10) // overlap == size, invalid
	require.Len(t, boundaries, 2)
	assert.Equal(t, "yyyyyyyyyy", boundaries[0].Text)
	assert.Equal(t, "yyyyy", boundaries[1].Text)
}
