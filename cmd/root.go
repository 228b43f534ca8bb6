package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mv02/bp-diff-tool/internal/loader"
)

var (
	neo4jURI  string
	neo4jUser string
	neo4jPass string
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bp-diff-tool",
		Short: "Load Java call-graph dumps into Neo4j",
		Long: `bp-diff-tool ingests the CSV dumps produced by the bytecode analyzer
(methods, invoke sites, and resolved call targets), rebuilds the call
graph in memory, and loads it into Neo4j for the visualization frontend.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&neo4jURI, "neo4j-uri", "bolt://localhost:7687", "Neo4j bolt URI")
	cmd.PersistentFlags().StringVar(&neo4jUser, "neo4j-user", "neo4j", "Neo4j username")
	cmd.PersistentFlags().StringVar(&neo4jPass, "neo4j-pass", "", "Neo4j password")

	cmd.AddCommand(loadCmd())
	cmd.AddCommand(printCmd())
	cmd.AddCommand(graphsCmd())
	cmd.AddCommand(deleteCmd())
	cmd.AddCommand(treeCmd())
	cmd.AddCommand(methodCmd())
	cmd.AddCommand(callersCmd())
	cmd.AddCommand(calleesCmd())
	cmd.AddCommand(watchCmd())
	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd().Execute()
}

// connect opens a Neo4j connection from the persistent flags.
func connect(ctx context.Context) (*loader.Loader, error) {
	if neo4jPass == "" {
		return nil, fmt.Errorf("--neo4j-pass is required")
	}
	return loader.New(ctx, neo4jURI, neo4jUser, neo4jPass)
}
