package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_EmptyStoreReturnsNoResults(t *testing.T) {
	withMemoryStore(t)
	chdirTemp(t)

	rootCmd := NewRootCmd()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "anything"})

	err := rootCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "0 result(s)")
}

func TestSearchCmd_FindsIndexedContent(t *testing.T) {
	// Uses the default sqlite provider (not withMemoryStore) because the
	// index and search run as two separate Adapter instances sharing
	// ./ragcore.db in the chdir'd temp dir; an in-memory adapter would
	// not survive across them.
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("the quick brown fox jumps over the lazy dog"), 0o644))

	indexCmd := NewRootCmd()
	indexCmd.SetArgs([]string{"index", "notes.txt"})
	require.NoError(t, indexCmd.Execute())

	searchCmd := NewRootCmd()
	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)
	searchCmd.SetArgs([]string{"search", "fox", "--json"})

	err := searchCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "fox")
}

func TestSearchCmd_HybridFlagRuns(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("the quick brown fox"), 0o644))

	indexCmd := NewRootCmd()
	indexCmd.SetArgs([]string{"index", "notes.txt"})
	require.NoError(t, indexCmd.Execute())

	searchCmd := NewRootCmd()
	buf := new(bytes.Buffer)
	searchCmd.SetOut(buf)
	searchCmd.SetArgs([]string{"search", "--hybrid", "fox"})

	err := searchCmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "result(s)")
}
