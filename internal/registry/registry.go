// Package registry implements the adapter Registry & Factory: a
// name→factory map with scoped lifetimes, environment/config
// resolution, and dynamic loading of user-supplied backend factories.
//
// No process-wide singleton is exposed; every caller owns its own
// Registry, so registration side-effects never leak across tests.
package registry

import (
	"context"
	"fmt"
	"os"

	"github.com/ragcore/engine/internal/ragerr"
	"github.com/ragcore/engine/internal/store"
)

// Factory constructs and does not initialize an Adapter from a config
// map. AdapterFactory.Create calls Initialize after construction.
type Factory func(config map[string]any) (store.Adapter, error)

// Registry maps provider name to Factory. It is never a process global;
// each caller constructs its own via New.
type Registry struct {
	factories map[string]Factory
	builtins  bool
}

// New constructs an empty Registry. Built-in providers ("memory",
// "sqlite" and its aliases) are registered lazily on first lookup so
// that a Registry which never needs them never pays their import cost
// or has to be pre-seeded by the caller.
func New() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) ensureBuiltins() {
	if r.builtins {
		return
	}
	r.builtins = true
	r.factories["memory"] = memoryFactory
	r.factories["sqlite"] = sqliteFactory
	r.factories["sqlite3"] = sqliteFactory
	r.factories["sql"] = sqliteFactory
}

func memoryFactory(config map[string]any) (store.Adapter, error) {
	dim := intOption(config, "dimension", 768)
	return store.NewMemory(store.MemoryConfig{Dimension: dim}), nil
}

func sqliteFactory(config map[string]any) (store.Adapter, error) {
	path, _ := config["path"].(string)
	if path == "" {
		path = "./ragcore.db"
	}
	dim := intOption(config, "dimension", 768)
	return store.NewSQLite(store.SQLiteConfig{Path: path, Dimension: dim}), nil
}

func intOption(config map[string]any, key string, def int) int {
	v, ok := config[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return def
	}
}

// Register adds a provider factory. Registering a name twice fails with
// KindAlreadyRegistered.
func (r *Registry) Register(provider string, f Factory) error {
	r.ensureBuiltins()
	if _, exists := r.factories[provider]; exists {
		return ragerr.New(ragerr.KindAlreadyRegistered,
			fmt.Sprintf("provider %q is already registered", provider))
	}
	r.factories[provider] = f
	return nil
}

// Unregister removes a provider. Unregistering an unknown name is a
// no-op.
func (r *Registry) Unregister(provider string) {
	r.ensureBuiltins()
	delete(r.factories, provider)
}

// Clear removes every registered provider, including built-ins. Builtins
// are lazily re-registered on the next Lookup/Register/Unregister (per
// §4.6, they are "registered lazily on first use"), so Clear is for test
// isolation between cases, not for permanently disabling a built-in —
// use Unregister by name for that.
func (r *Registry) Clear() {
	r.factories = make(map[string]Factory)
	r.builtins = false
}

// Lookup returns the factory for provider, or KindProviderMissing.
func (r *Registry) Lookup(provider string) (Factory, error) {
	r.ensureBuiltins()
	f, ok := r.factories[provider]
	if !ok {
		return nil, ragerr.New(ragerr.KindProviderMissing,
			fmt.Sprintf("no factory registered for provider %q", provider))
	}
	return f, nil
}

// WithRegistry runs op against a fresh Registry, guaranteeing that any
// registration side effects inside op do not leak past the call.
func WithRegistry(op func(r *Registry) error) error {
	return op(New())
}

// WithCustomRegistry runs op against a fresh Registry pre-seeded with
// extra factories, again guaranteeing isolation.
func WithCustomRegistry(extra map[string]Factory, op func(r *Registry) error) error {
	r := New()
	r.ensureBuiltins()
	for name, f := range extra {
		r.factories[name] = f
	}
	return op(r)
}

// Config is the fully-resolved configuration the Factory passes to a
// provider's Factory function.
type Config struct {
	Provider string
	Options  map[string]any
}

// DefaultConfig matches spec.md §6's documented defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "sqlite",
		Options: map[string]any{
			"path":      "./ragcore.db",
			"dimension": 768,
		},
	}
}

// AdapterFactory owns a default Config and builds ready-to-use adapters
// against a Registry.
type AdapterFactory struct {
	Registry *Registry
	Default  Config
}

// NewAdapterFactory constructs a Factory bound to r with the given
// default config.
func NewAdapterFactory(r *Registry, def Config) *AdapterFactory {
	return &AdapterFactory{Registry: r, Default: def}
}

// Create deep-merges partial over the default config, looks up the
// provider, constructs and initializes the adapter.
func (af *AdapterFactory) Create(ctx context.Context, partial Config) (store.Adapter, error) {
	merged := af.merge(partial)
	factory, err := af.Registry.Lookup(merged.Provider)
	if err != nil {
		return nil, err
	}
	adapter, err := factory(merged.Options)
	if err != nil {
		return nil, ragerr.Wrap(ragerr.KindBackendError, "construct adapter", err)
	}
	if err := adapter.Initialize(ctx); err != nil {
		return nil, err
	}
	return adapter, nil
}

func (af *AdapterFactory) merge(partial Config) Config {
	out := Config{Provider: af.Default.Provider, Options: map[string]any{}}
	for k, v := range af.Default.Options {
		out.Options[k] = v
	}
	if partial.Provider != "" {
		out.Provider = partial.Provider
	}
	for k, v := range partial.Options {
		out.Options[k] = v
	}
	return out
}

// environment variable names recognized by CreateFromEnv, per the
// configuration contract.
const (
	EnvProvider   = "VECTOR_DB_PROVIDER"
	EnvConfigJSON = "VECTOR_DB_CONFIG"
	EnvSQLitePath = "SQLITE_DB_PATH"
	EnvDimension  = "EMBEDDING_DIMENSION"
)

// CreateFromEnv reads provider and backend options from the predeclared
// environment variables and constructs an adapter from them, deep-merged
// over the factory's default config.
func (af *AdapterFactory) CreateFromEnv(ctx context.Context) (store.Adapter, error) {
	partial := Config{Options: map[string]any{}}
	if v := os.Getenv(EnvProvider); v != "" {
		partial.Provider = v
	}
	if v := os.Getenv(EnvSQLitePath); v != "" {
		partial.Options["path"] = v
	}
	if v := os.Getenv(EnvDimension); v != "" {
		if n, ok := parsePositiveInt(v); ok {
			partial.Options["dimension"] = n
		}
	}
	if v := os.Getenv(EnvConfigJSON); v != "" {
		extra, err := parseJSONObject(v)
		if err != nil {
			return nil, ragerr.Wrap(ragerr.KindValidationError, "parse "+EnvConfigJSON, err)
		}
		for k, val := range extra {
			partial.Options[k] = val
		}
	}
	return af.Create(ctx, partial)
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
