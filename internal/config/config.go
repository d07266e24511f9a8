// Package config loads the layered configuration document described in
// spec.md §6: a JSON file read from one of a few conventional
// locations, decoded with gopkg.in/yaml.v3 (a strict superset of JSON),
// then overlaid by the environment variables the registry already
// recognizes.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ragcore/engine/internal/registry"
)

// VectorDBConfig configures the storage backend.
type VectorDBConfig struct {
	Provider string         `yaml:"provider" json:"provider"`
	Options  map[string]any `yaml:"options" json:"options"`
}

// EmbeddingConfig configures the embedding collaborator.
type EmbeddingConfig struct {
	Model     string `yaml:"model" json:"model"`
	Dimension int    `yaml:"dimension" json:"dimension"`
}

// IndexingConfig configures the Indexer's defaults.
type IndexingConfig struct {
	ChunkSize          int  `yaml:"chunkSize" json:"chunkSize"`
	ChunkOverlap       int  `yaml:"chunkOverlap" json:"chunkOverlap"`
	BatchSize          int  `yaml:"batchSize" json:"batchSize"`
	PreserveBoundaries bool `yaml:"preserveBoundaries" json:"preserveBoundaries"`
}

// SearchConfig configures the Retriever's defaults.
type SearchConfig struct {
	DefaultK            int     `yaml:"defaultK" json:"defaultK"`
	EnableRerank        bool    `yaml:"enableRerank" json:"enableRerank"`
	RerankBoostFactor   float64 `yaml:"rerankBoostFactor" json:"rerankBoostFactor"`
	HybridKeywordWeight float64 `yaml:"hybridKeywordWeight" json:"hybridKeywordWeight"`
}

// Config is the fully-resolved configuration document.
type Config struct {
	VectorDB       VectorDBConfig    `yaml:"vectorDB" json:"vectorDB"`
	Embedding      EmbeddingConfig   `yaml:"embedding" json:"embedding"`
	Indexing       IndexingConfig    `yaml:"indexing" json:"indexing"`
	Search         SearchConfig      `yaml:"search" json:"search"`
	CustomAdapters map[string]string `yaml:"customAdapters" json:"customAdapters"`
}

// Default matches spec.md §6's documented defaults exactly.
func Default() Config {
	return Config{
		VectorDB: VectorDBConfig{
			Provider: "sqlite",
			Options: map[string]any{
				"path":      "./ragcore.db",
				"dimension": 768,
			},
		},
		Embedding: EmbeddingConfig{Dimension: 768},
		Indexing: IndexingConfig{
			ChunkSize:          1000,
			ChunkOverlap:       200,
			BatchSize:          100,
			PreserveBoundaries: false,
		},
		Search: SearchConfig{
			DefaultK:            5,
			EnableRerank:        true,
			RerankBoostFactor:   0.1,
			HybridKeywordWeight: 0.3,
		},
		CustomAdapters: map[string]string{},
	}
}

// candidatePaths returns the three locations checked, in precedence
// order, for a project rooted at dir.
func candidatePaths(dir string) []string {
	paths := []string{
		filepath.Join(dir, "ragcore.config.json"),
		filepath.Join(dir, ".ragcorerc.json"),
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".ragcore", "config.json"))
	}
	return paths
}

// Load reads the first config file found under dir (or its conventional
// locations), applies it over Default(), then overlays the VECTOR_DB_*
// and EMBEDDING_DIMENSION environment variables. A missing file at
// every candidate path is not an error; Load just returns the defaults.
func Load(dir string) (Config, error) {
	cfg := Default()

	for _, path := range candidatePaths(dir) {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed := Default()
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return Config{}, err
		}
		cfg = mergeConfig(cfg, parsed)
		break
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

// mergeConfig layers override's non-zero fields on top of base. The two
// boolean fields are copied whether or not they are set, so Load decodes
// the file over a copy of Default() to keep a boolean the file omits at
// its default.
func mergeConfig(base, override Config) Config {
	if override.VectorDB.Provider != "" {
		base.VectorDB.Provider = override.VectorDB.Provider
	}
	for k, v := range override.VectorDB.Options {
		if base.VectorDB.Options == nil {
			base.VectorDB.Options = map[string]any{}
		}
		base.VectorDB.Options[k] = v
	}
	if override.Embedding.Model != "" {
		base.Embedding.Model = override.Embedding.Model
	}
	if override.Embedding.Dimension != 0 {
		base.Embedding.Dimension = override.Embedding.Dimension
	}
	if override.Indexing.ChunkSize != 0 {
		base.Indexing.ChunkSize = override.Indexing.ChunkSize
	}
	if override.Indexing.ChunkOverlap != 0 {
		base.Indexing.ChunkOverlap = override.Indexing.ChunkOverlap
	}
	if override.Indexing.BatchSize != 0 {
		base.Indexing.BatchSize = override.Indexing.BatchSize
	}
	base.Indexing.PreserveBoundaries = override.Indexing.PreserveBoundaries
	if override.Search.DefaultK != 0 {
		base.Search.DefaultK = override.Search.DefaultK
	}
	base.Search.EnableRerank = override.Search.EnableRerank
	if override.Search.RerankBoostFactor != 0 {
		base.Search.RerankBoostFactor = override.Search.RerankBoostFactor
	}
	if override.Search.HybridKeywordWeight != 0 {
		base.Search.HybridKeywordWeight = override.Search.HybridKeywordWeight
	}
	for k, v := range override.CustomAdapters {
		if base.CustomAdapters == nil {
			base.CustomAdapters = map[string]string{}
		}
		base.CustomAdapters[k] = v
	}
	return base
}

// applyEnvOverrides mirrors the registry's own environment contract
// (registry.EnvProvider et al.) so the same variables that steer
// AdapterFactory.CreateFromEnv also steer a config file load.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(registry.EnvProvider); v != "" {
		cfg.VectorDB.Provider = v
	}
	if v := os.Getenv(registry.EnvSQLitePath); v != "" {
		if cfg.VectorDB.Options == nil {
			cfg.VectorDB.Options = map[string]any{}
		}
		cfg.VectorDB.Options["path"] = v
	}
	if v := os.Getenv(registry.EnvDimension); v != "" {
		if n, ok := parsePositiveInt(v); ok {
			cfg.Embedding.Dimension = n
			if cfg.VectorDB.Options == nil {
				cfg.VectorDB.Options = map[string]any{}
			}
			cfg.VectorDB.Options["dimension"] = n
		}
	}
}

func parsePositiveInt(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

// ToRegistryConfig converts the vectorDB section into the shape
// registry.AdapterFactory consumes.
func (c Config) ToRegistryConfig() registry.Config {
	return registry.Config{Provider: c.VectorDB.Provider, Options: c.VectorDB.Options}
}
