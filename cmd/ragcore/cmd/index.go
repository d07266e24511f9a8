package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ragcore/engine/internal/acquire"
	"github.com/ragcore/engine/internal/chunk"
	"github.com/ragcore/engine/internal/config"
	"github.com/ragcore/engine/internal/docmodel"
	"github.com/ragcore/engine/internal/index"
)

type indexOptions struct {
	sourceID           string
	title              string
	url                string
	sourceType         string
	preserveBoundaries bool
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index <path-or-glob>",
		Short: "Index a file or glob into the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sourceID, "source-id", "", "Deterministic source id (defaults to the path)")
	cmd.Flags().StringVar(&opts.title, "title", "", "Title to attach to the indexed source")
	cmd.Flags().StringVar(&opts.url, "url", "", "URL to attach to the indexed source")
	cmd.Flags().StringVar(&opts.sourceType, "source-type", string(docmodel.SourceFile), "Source type: file, text, gist, or github")
	cmd.Flags().BoolVar(&opts.preserveBoundaries, "preserve-boundaries", false, "Use CST-aware chunking when a parser is available for the file")

	return cmd
}

func runIndex(cmd *cobra.Command, path string, opts indexOptions) error {
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

	pipeline := chunk.NewPipeline()
	defer pipeline.Dispose()

	ix := index.New(adapter, pipeline, buildEmbedder(cfg))

	sourceID := opts.sourceID
	if sourceID == "" {
		sourceID = path
	}

	var source acquire.Source
	if isGlobPattern(path) {
		source = acquire.Glob{Root: ".", Pattern: path}
	} else {
		source = acquire.LocalFile{Root: ".", Path: path}
	}

	result := ix.Index(ctx, []index.Input{{
		Source:     source,
		SourceID:   sourceID,
		Title:      opts.title,
		URL:        opts.url,
		SourceType: docmodel.SourceType(opts.sourceType),
		ChunkOpts: chunk.Options{
			ChunkSize:          cfg.Indexing.ChunkSize,
			ChunkOverlap:       cfg.Indexing.ChunkOverlap,
			PreserveBoundaries: opts.preserveBoundaries || cfg.Indexing.PreserveBoundaries,
		},
		BatchSize: cfg.Indexing.BatchSize,
	}})

	fmt.Fprintf(cmd.OutOrStdout(), "indexed %d item(s), %d chunk(s)\n", result.ItemsIndexed, result.ChunksCreated)
	for _, e := range result.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %s\n", e)
	}
	if result.ItemsIndexed == 0 && len(result.Errors) > 0 {
		return fmt.Errorf("indexing %s failed: %s", path, strings.Join(result.Errors, "; "))
	}
	return nil
}

func isGlobPattern(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
