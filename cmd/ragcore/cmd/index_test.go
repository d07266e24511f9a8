package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemoryStore(t *testing.T) {
	t.Helper()
	t.Setenv("VECTOR_DB_PROVIDER", "memory")
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestIndexCmd_IndexesLocalFile(t *testing.T) {
	withMemoryStore(t)
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("the quick brown fox jumps over the lazy dog"), 0o644))

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"index", "notes.txt"})

	err := rootCmd.Execute()
	require.NoError(t, err)
}

func TestIndexCmd_MissingFileReportsError(t *testing.T) {
	withMemoryStore(t)
	chdirTemp(t)

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"index", "missing.txt"})

	err := rootCmd.Execute()
	assert.Error(t, err)
}

func TestIndexCmd_GlobIndexesMultipleFiles(t *testing.T) {
	withMemoryStore(t)
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha content here"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("beta content here"), 0o644))

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"index", "--source-id", "docs", "*.txt"})

	err := rootCmd.Execute()
	require.NoError(t, err)
}
