// Package retrieve implements the Retriever (C9): embedding-based
// semantic search, an optional keyword re-ranker, a hybrid
// lexical/semantic blend, full-content reconstruction from chunk
// provenance, and result-set statistics.
package retrieve

import (
	"context"
	"sort"
	"strings"

	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/embed"
	"github.com/ragcore/engine/internal/filter"
	"github.com/ragcore/engine/internal/store"
)

// Retriever drives semantic, hybrid, and full-content lookups over one
// Adapter and Embedder pair, applying the configured defaults when a
// caller leaves an option unset.
type Retriever struct {
	Adapter  store.Adapter
	Embedder embed.Embedder

	DefaultK                   int
	DefaultRerank              bool
	DefaultRerankBoost         float64
	DefaultHybridKeywordWeight float64
}

// New builds a Retriever with the defaults from spec §6's configuration
// table: k=5, rerank on, boost 0.1, hybrid keyword weight 0.3.
func New(adapter store.Adapter, embedder embed.Embedder) *Retriever {
	return &Retriever{
		Adapter:                    adapter,
		Embedder:                   embedder,
		DefaultK:                   5,
		DefaultRerank:              true,
		DefaultRerankBoost:         0.1,
		DefaultHybridKeywordWeight: 0.3,
	}
}

// SearchParams parameterizes Search; a nil pointer field (or K <= 0)
// means "use the Retriever's default".
type SearchParams struct {
	K           int
	SourceType  docmodel.SourceType
	Rerank      *bool
	RerankBoost *float64
}

// HybridParams parameterizes Hybrid; KeywordWeight nil means "use the
// Retriever's default".
type HybridParams struct {
	K             int
	SourceType    docmodel.SourceType
	KeywordWeight *float64
}

func (r *Retriever) sourceFilter(sourceType docmodel.SourceType) filter.Filter {
	if sourceType == "" {
		return nil
	}
	return filter.Filter{docmodel.MetaSourceType: string(sourceType)}
}

// Search embeds query, calls the adapter's k-NN search with an optional
// sourceType filter, then applies the re-ranker unless disabled.
func (r *Retriever) Search(ctx context.Context, query string, params SearchParams) ([]docmodel.Hit, error) {
	k := params.K
	if k <= 0 {
		k = r.DefaultK
	}

	vec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	hits, err := r.Adapter.Search(ctx, vec, store.SearchOptions{K: k, Filter: r.sourceFilter(params.SourceType)})
	if err != nil {
		return nil, err
	}

	rerank := r.DefaultRerank
	if params.Rerank != nil {
		rerank = *params.Rerank
	}
	if !rerank {
		return hits, nil
	}

	boost := r.DefaultRerankBoost
	if params.RerankBoost != nil {
		boost = *params.RerankBoost
	}
	return Rerank(query, hits, boost), nil
}

// Hybrid runs semantic search with reranking disabled, then blends each
// hit's semantic score with its keyword-match ratio via a convex
// combination weighted by keywordWeight.
func (r *Retriever) Hybrid(ctx context.Context, query string, params HybridParams) ([]docmodel.Hit, error) {
	noRerank := false
	hits, err := r.Search(ctx, query, SearchParams{K: params.K, SourceType: params.SourceType, Rerank: &noRerank})
	if err != nil {
		return nil, err
	}

	weight := r.DefaultHybridKeywordWeight
	if params.KeywordWeight != nil {
		weight = *params.KeywordWeight
	}
	return blendHybrid(query, hits, weight), nil
}

func queryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, w := range fields {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// matchCount counts how many of words occur as a substring of content
// (case-insensitive), each word counted at most once.
func matchCount(words []string, content string) int {
	lower := strings.ToLower(content)
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

// Rerank boosts each hit's score by matchCount(query words, content) *
// boost, then re-sorts descending, stable on ties so equal-scoring hits
// keep their incoming relative order.
func Rerank(query string, hits []docmodel.Hit, boost float64) []docmodel.Hit {
	words := queryWords(query)
	out := make([]docmodel.Hit, len(hits))
	copy(out, hits)
	if len(words) == 0 {
		return out
	}
	for i := range out {
		out[i].Score += float64(matchCount(words, out[i].Content)) * boost
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func blendHybrid(query string, hits []docmodel.Hit, keywordWeight float64) []docmodel.Hit {
	words := queryWords(query)
	out := make([]docmodel.Hit, len(hits))
	copy(out, hits)
	for i := range out {
		wordScore := 0.0
		if len(words) > 0 {
			wordScore = float64(matchCount(words, out[i].Content)) / float64(len(words))
		}
		out[i].Score = out[i].Score*(1-keywordWeight) + wordScore*keywordWeight
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Reconstruct resolves hit's full original content: chunk 0 already
// carries it in metadata.originalContent; any other chunk requires
// fetching its Source's first chunk from the adapter.
func (r *Retriever) Reconstruct(ctx context.Context, hit docmodel.Hit) (string, error) {
	if content, ok := hit.Metadata[docmodel.MetaOriginalContent].(string); ok {
		return content, nil
	}
	sourceID, _ := hit.Metadata[docmodel.MetaSourceID].(string)
	if sourceID == "" {
		return hit.Content, nil
	}

	hits, err := r.Adapter.List(ctx, store.ListOptions{
		Limit:  1,
		Filter: filter.Filter{docmodel.MetaSourceID: sourceID, docmodel.MetaChunkIndex: 0},
	})
	if err != nil {
		return "", err
	}
	if len(hits) == 0 {
		return hit.Content, nil
	}
	if content, ok := hits[0].Metadata[docmodel.MetaOriginalContent].(string); ok {
		return content, nil
	}
	return hit.Content, nil
}

// Stats summarizes a result list.
type Stats struct {
	TotalResults int
	AverageScore float64
	MinScore     float64
	MaxScore     float64
	SourceTypes  map[string]int
}

// Summarize computes Stats over hits; an empty list yields all-zero
// numeric fields and an empty histogram.
func Summarize(hits []docmodel.Hit) Stats {
	stats := Stats{SourceTypes: make(map[string]int)}
	if len(hits) == 0 {
		return stats
	}
	stats.TotalResults = len(hits)
	stats.MinScore = hits[0].Score
	stats.MaxScore = hits[0].Score
	var sum float64
	for _, h := range hits {
		sum += h.Score
		if h.Score < stats.MinScore {
			stats.MinScore = h.Score
		}
		if h.Score > stats.MaxScore {
			stats.MaxScore = h.Score
		}
		sourceType, ok := h.Metadata[docmodel.MetaSourceType].(string)
		if !ok || sourceType == "" {
			sourceType = "unknown"
		}
		stats.SourceTypes[sourceType]++
	}
	stats.AverageScore = sum / float64(len(hits))
	return stats
}
