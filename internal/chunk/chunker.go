package chunk

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// parserCacheSize bounds the number of live tree-sitter parsers held by
// one Pipeline; far more than the handful of first-class languages this
// package registers, so eviction only kicks in for pathological custom
// registries.
const parserCacheSize = 32

// Pipeline is the CST-aware Chunker (C7): it dispatches by file
// extension to a per-language tree-sitter parser drawn from a
// process-private cache, extracts boundary nodes, and falls back to the
// deterministic length/overlap chunker when no parser is available or
// parsing fails. It implements the Chunker interface.
type Pipeline struct {
	registry *LanguageRegistry
	cache    *lru.Cache[string, *Parser]
	mu       sync.Mutex

	warnedMu sync.Mutex
	warned   map[string]bool
}

// NewPipeline builds a Pipeline over the package's default language
// registry.
func NewPipeline() *Pipeline {
	return NewPipelineWithRegistry(DefaultRegistry())
}

// NewPipelineWithRegistry builds a Pipeline over a caller-supplied
// registry, e.g. one extended with custom languages.
func NewPipelineWithRegistry(registry *LanguageRegistry) *Pipeline {
	cache, _ := lru.NewWithEvict[string, *Parser](parserCacheSize, func(_ string, p *Parser) {
		p.Close()
	})
	return &Pipeline{registry: registry, cache: cache, warned: make(map[string]bool)}
}

// Dispose releases every cached parser. Safe to call more than once; it
// is invoked on both the success and error paths of whatever scope owns
// the Pipeline.
func (p *Pipeline) Dispose() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Purge()
}

func (p *Pipeline) parserFor(language string) *Parser {
	p.mu.Lock()
	defer p.mu.Unlock()
	if parser, ok := p.cache.Get(language); ok {
		return parser
	}
	parser := NewParserWithRegistry(p.registry)
	p.cache.Add(language, parser)
	return parser
}

func (p *Pipeline) warnOnce(language string) {
	p.warnedMu.Lock()
	defer p.warnedMu.Unlock()
	if p.warned[language] {
		return
	}
	p.warned[language] = true
	slog.Warn("chunk: falling back to length/overlap chunking", "language", language)
}

// Chunk implements Chunker. When opts.PreserveBoundaries is set it
// attempts CST boundary extraction first; any failure (unsupported
// extension, parser error, or a tree with no boundary nodes) falls back
// to FallbackChunk, sized per SizeForPath unless opts pins an explicit
// size/overlap.
func (p *Pipeline) Chunk(ctx context.Context, file *FileInput, opts Options) ([]Boundary, error) {
	if opts.PreserveBoundaries {
		if boundaries, ok := p.tryCST(ctx, file); ok {
			return boundaries, nil
		}
	}
	size, overlap := resolveSize(file.Path, opts)
	return FallbackChunk(string(file.Content), size, overlap), nil
}

func (p *Pipeline) tryCST(ctx context.Context, file *FileInput) ([]Boundary, bool) {
	ext := strings.ToLower(filepath.Ext(file.Path))
	cfg, ok := p.registry.GetByExtension(ext)
	if !ok {
		p.warnOnce(ext)
		return nil, false
	}

	parser := p.parserFor(cfg.Name)
	tree, err := parser.Parse(ctx, file.Content, cfg.Name)
	if err != nil || tree == nil || tree.Root == nil {
		p.warnOnce(cfg.Name)
		return nil, false
	}

	boundaries := ExtractBoundaries(tree, cfg)
	if len(boundaries) == 0 {
		return nil, false
	}
	return boundaries, true
}
