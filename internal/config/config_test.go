package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MatchesDocumentedDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sqlite", cfg.VectorDB.Provider)
	assert.Equal(t, "./ragcore.db", cfg.VectorDB.Options["path"])
	assert.Equal(t, 768, cfg.VectorDB.Options["dimension"])
	assert.Equal(t, 768, cfg.Embedding.Dimension)
	assert.Equal(t, 1000, cfg.Indexing.ChunkSize)
	assert.Equal(t, 200, cfg.Indexing.ChunkOverlap)
	assert.Equal(t, 100, cfg.Indexing.BatchSize)
	assert.False(t, cfg.Indexing.PreserveBoundaries)
	assert.Equal(t, 5, cfg.Search.DefaultK)
	assert.True(t, cfg.Search.EnableRerank)
	assert.InDelta(t, 0.1, cfg.Search.RerankBoostFactor, 1e-9)
	assert.InDelta(t, 0.3, cfg.Search.HybridKeywordWeight, 1e-9)
	assert.Empty(t, cfg.CustomAdapters)
}

func TestLoad_NoFilePresentReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VECTOR_DB_PROVIDER", "")
	t.Setenv("SQLITE_DB_PATH", "")
	t.Setenv("EMBEDDING_DIMENSION", "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ProjectConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VECTOR_DB_PROVIDER", "")
	t.Setenv("SQLITE_DB_PATH", "")
	t.Setenv("EMBEDDING_DIMENSION", "")

	data := `{"vectorDB": {"provider": "memory"}, "search": {"defaultK": 10}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ragcore.config.json"), []byte(data), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.VectorDB.Provider)
	assert.Equal(t, 10, cfg.Search.DefaultK)
	// untouched fields keep their defaults
	assert.Equal(t, 1000, cfg.Indexing.ChunkSize)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	data := `{"vectorDB": {"provider": "memory"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ragcore.config.json"), []byte(data), 0o644))

	t.Setenv("VECTOR_DB_PROVIDER", "sqlite")
	t.Setenv("EMBEDDING_DIMENSION", "1536")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.VectorDB.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimension)
}

func TestToRegistryConfig(t *testing.T) {
	cfg := Default()
	rc := cfg.ToRegistryConfig()
	assert.Equal(t, "sqlite", rc.Provider)
	assert.Equal(t, cfg.VectorDB.Options, rc.Options)
}
