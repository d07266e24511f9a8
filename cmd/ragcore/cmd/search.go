package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ragcore/engine/internal/config"
	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/retrieve"
)

type searchOptions struct {
	limit         int
	sourceType    string
	rerank        bool
	hybrid        bool
	keywordWeight float64
	jsonOutput    bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.limit, "limit", "k", 0, "Maximum number of results (0 uses the configured default)")
	cmd.Flags().StringVarP(&opts.sourceType, "source-type", "t", "", "Filter by source type")
	cmd.Flags().BoolVar(&opts.rerank, "rerank", true, "Apply keyword re-ranking to semantic results")
	cmd.Flags().BoolVar(&opts.hybrid, "hybrid", false, "Blend semantic and keyword scores instead of re-ranking")
	cmd.Flags().Float64Var(&opts.keywordWeight, "keyword-weight", 0, "Hybrid keyword weight (0 uses the configured default)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print results as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}

	adapter, err := buildAdapter(ctx, cfg)
	if err != nil {
		return err
	}
	defer adapter.Close(ctx)

	retriever := retrieve.New(adapter, buildEmbedder(cfg))
	retriever.DefaultK = cfg.Search.DefaultK
	retriever.DefaultRerank = cfg.Search.EnableRerank
	retriever.DefaultRerankBoost = cfg.Search.RerankBoostFactor
	retriever.DefaultHybridKeywordWeight = cfg.Search.HybridKeywordWeight

	sourceType := docmodel.SourceType(opts.sourceType)

	var hits []docmodel.Hit
	if opts.hybrid {
		params := retrieve.HybridParams{K: opts.limit, SourceType: sourceType}
		if opts.keywordWeight > 0 {
			params.KeywordWeight = &opts.keywordWeight
		}
		hits, err = retriever.Hybrid(ctx, query, params)
	} else {
		params := retrieve.SearchParams{K: opts.limit, SourceType: sourceType, Rerank: &opts.rerank}
		hits, err = retriever.Search(ctx, query, params)
	}
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}

	for i, h := range hits {
		fmt.Fprintf(cmd.OutOrStdout(), "%d. [%.4f] %s\n", i+1, h.Score, truncate(h.Content, 120))
	}
	stats := retrieve.Summarize(hits)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d result(s), average score %.4f\n", stats.TotalResults, stats.AverageScore)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
