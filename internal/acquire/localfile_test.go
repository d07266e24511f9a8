package acquire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ragcore/engine/internal/ragerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFile_Acquire(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))

	items, err := LocalFile{Root: dir, Path: "a.txt"}.Acquire(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hello", string(items[0].Content))
}

func TestLocalFile_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	_, err := LocalFile{Root: dir, Path: "../../../etc/passwd"}.Acquire(context.Background())
	require.Error(t, err)
	assert.Equal(t, ragerr.KindValidationError, ragerr.KindOf(err))
}

func TestGlob_Acquire(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte("package b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte("text"), 0o644))

	items, err := Glob{Root: dir, Pattern: "*.go"}.Acquire(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
