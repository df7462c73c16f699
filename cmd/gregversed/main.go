package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gregverse/gregverse/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "gregversed",
		Short:   "Gregverse daemon - content archive API with semantic search",
		Long:    "Gregverse daemon for serving the content archive API, reindexing the vector index, and syncing YouTube uploads",
		Version: version,
	}

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ReindexCmd())
	rootCmd.AddCommand(cli.SyncCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
