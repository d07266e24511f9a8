package store

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/filter"
	"github.com/ragcore/engine/internal/ragerr"
)

// MemoryConfig configures the reference in-memory backend.
type MemoryConfig struct {
	Dimension int
}

// DefaultMemoryConfig mirrors the SQL backend's default so the two
// backends are interchangeable for a caller that just wants a store.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{Dimension: 768}
}

// Memory is the reference in-memory Adapter: an associative container
// keyed by ChunkID, exact cosine similarity search, no persistence.
type Memory struct {
	mu          sync.Mutex
	cfg         MemoryConfig
	initialized bool
	closed      bool
	chunks      map[string]docmodel.Chunk
	order       []string // insertion order, for List
}

// NewMemory constructs an uninitialized Memory adapter.
func NewMemory(cfg MemoryConfig) *Memory {
	if cfg.Dimension == 0 {
		cfg.Dimension = 768
	}
	return &Memory{cfg: cfg}
}

func (m *Memory) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return nil
	}
	m.chunks = make(map[string]docmodel.Chunk)
	m.initialized = true
	return nil
}

func (m *Memory) checkReady() error {
	if !m.initialized || m.closed {
		return ragerr.New(ragerr.KindNotInitialized, "memory adapter is not initialized")
	}
	return nil
}

func (m *Memory) Insert(ctx context.Context, c docmodel.Chunk) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(c)
}

func (m *Memory) insertLocked(c docmodel.Chunk) (string, error) {
	if err := m.checkReady(); err != nil {
		return "", err
	}
	if err := docmodel.EnsureDimension(c.Embedding, m.cfg.Dimension); err != nil {
		return "", err
	}
	c.ChunkID = docmodel.GenerateID(c.ChunkID)
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if _, exists := m.chunks[c.ChunkID]; !exists {
		m.order = append(m.order, c.ChunkID)
	}
	m.chunks[c.ChunkID] = c
	return c.ChunkID, nil
}

func (m *Memory) InsertBatch(ctx context.Context, cs []docmodel.Chunk) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	// Validate the whole batch up front so a failing element leaves
	// the store unchanged, per the batch-granularity contract.
	for _, c := range cs {
		if err := docmodel.EnsureDimension(c.Embedding, m.cfg.Dimension); err != nil {
			return nil, err
		}
	}
	ids := make([]string, len(cs))
	for i, c := range cs {
		id, err := m.insertLocked(c)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (m *Memory) Get(ctx context.Context, id string) (*docmodel.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	c, ok := m.chunks[id]
	if !ok {
		return nil, nil
	}
	cp := c
	return &cp, nil
}

func (m *Memory) Update(ctx context.Context, id string, p Partial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return err
	}
	c, ok := m.chunks[id]
	if !ok {
		return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
	}
	if p.Content != nil {
		c.Content = *p.Content
	}
	if p.Embedding != nil {
		if err := docmodel.EnsureDimension(p.Embedding, m.cfg.Dimension); err != nil {
			return err
		}
		c.Embedding = p.Embedding
	}
	if p.Metadata != nil {
		c.Metadata = p.Metadata
	}
	c.UpdatedAt = time.Now()
	m.chunks[id] = c
	return nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return err
	}
	if _, ok := m.chunks[id]; !ok {
		return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
	}
	delete(m.chunks, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) DeleteBatch(ctx context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := m.chunks[id]; !ok {
			return ragerr.New(ragerr.KindNotFound, "chunk not found").WithDetail("id", id)
		}
	}
	for _, id := range ids {
		delete(m.chunks, id)
		for i, oid := range m.order {
			if oid == id {
				m.order = append(m.order[:i], m.order[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (m *Memory) Search(ctx context.Context, embedding []float32, opts SearchOptions) ([]docmodel.Hit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return nil, err
	}
	k := opts.K
	if k <= 0 {
		k = 1
	}

	hits := make([]docmodel.Hit, 0, len(m.chunks))
	for _, id := range m.order {
		c := m.chunks[id]
		if !compiled.Predicate(c.Metadata) {
			continue
		}
		score := cosine(embedding, c.Embedding)
		hits = append(hits, docmodel.Hit{Chunk: c, Score: score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (m *Memory) List(ctx context.Context, opts ListOptions) ([]docmodel.Chunk, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return nil, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return nil, err
	}

	matched := make([]docmodel.Chunk, 0, len(m.order))
	for _, id := range m.order {
		c := m.chunks[id]
		if compiled.Predicate(c.Metadata) {
			matched = append(matched, c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []docmodel.Chunk{}, nil
	}
	limit := opts.Limit
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matched[offset:end], nil
}

func (m *Memory) Count(ctx context.Context, opts CountOptions) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkReady(); err != nil {
		return 0, err
	}
	compiled, err := filter.Compile(opts.Filter)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range m.chunks {
		if compiled.Predicate(c.Metadata) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunks = nil
	m.order = nil
	m.closed = true
	return nil
}

func (m *Memory) Info() Info {
	return Info{Provider: "memory", Version: "1", Capabilities: []string{"search", "list", "count", "batch"}}
}

// cosine computes cosine similarity, returning 0 if either vector has
// zero norm.
func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
