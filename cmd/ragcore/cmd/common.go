package cmd

import (
	"context"

	"github.com/ragcore/engine/internal/config"
	"github.com/ragcore/engine/internal/embed"
	"github.com/ragcore/engine/internal/registry"
	"github.com/ragcore/engine/internal/store"
)

// buildAdapter constructs and initializes the storage adapter named by
// cfg.VectorDB, deep-merged over the registry's own defaults. Any
// provider listed under cfg.CustomAdapters is registered as a Go plugin
// before the lookup, so customAdapters entries in the config file can
// name a provider no built-in factory knows about.
func buildAdapter(ctx context.Context, cfg config.Config) (store.Adapter, error) {
	reg := registry.New()
	for provider, path := range cfg.CustomAdapters {
		factory, err := registry.LoadCustomFactory(path, provider)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(provider, factory); err != nil {
			return nil, err
		}
	}

	factory := registry.NewAdapterFactory(reg, registry.DefaultConfig())
	return factory.Create(ctx, cfg.ToRegistryConfig())
}

// buildEmbedder returns the static embedder sized to cfg's configured
// dimension. A caller wiring in a real embedding service would swap
// this for their own embed.Embedder.
func buildEmbedder(cfg config.Config) embed.Embedder {
	dim := cfg.Embedding.Dimension
	if dim <= 0 {
		dim = 768
	}
	return embed.NewStatic(dim)
}
