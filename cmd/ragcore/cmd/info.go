package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ragcore/engine/internal/config"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the resolved configuration and backend info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd)
		},
	}
}

func runInfo(cmd *cobra.Command) error {
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

	info := adapter.Info()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "provider:     %s\n", info.Provider)
	fmt.Fprintf(out, "version:      %s\n", info.Version)
	fmt.Fprintf(out, "capabilities: %v\n", info.Capabilities)
	fmt.Fprintf(out, "dimension:    %d\n", cfg.Embedding.Dimension)
	fmt.Fprintf(out, "default k:    %d\n", cfg.Search.DefaultK)
	fmt.Fprintf(out, "chunk size:   %d (overlap %d)\n", cfg.Indexing.ChunkSize, cfg.Indexing.ChunkOverlap)
	return nil
}
