// Command ragcore is a thin CLI shell over the core library: index,
// search, and info subcommands wired straight onto the Registry,
// Indexer, and Retriever. It carries no TUI, no MCP server, and no
// watcher daemon.
package main

import (
	"fmt"
	"os"

	"github.com/ragcore/engine/cmd/ragcore/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
