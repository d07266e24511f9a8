// Package cmd implements the ragcore CLI's cobra commands: a root
// command plus index, search, and info subcommands wired straight onto
// the registry, indexer, and retriever packages.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the ragcore root command with its subcommands
// attached.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ragcore",
		Short: "A retrieval-augmented search engine over local content",
		Long: `ragcore indexes text, files, and globs into a vector store and
retrieves them by semantic similarity, keyword re-ranking, or a hybrid
blend of both.`,
		SilenceUsage: true,
	}

	root.AddCommand(newIndexCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newInfoCmd())

	return root
}
