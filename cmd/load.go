package cmd

import (
	"log"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mv02/bp-diff-tool/internal/csvdump"
)

func loadCmd() *cobra.Command {
	var graphName string

	cmd := &cobra.Command{
		Use:   "load <dump-dir>",
		Short: "Import an analyzer dump into Neo4j",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if graphName == "" {
				graphName = filepath.Base(dir)
			}

			g, err := csvdump.Load(dir, graphName)
			if err != nil {
				return err
			}
			log.Printf("Parsed %d methods and %d invoke sites", g.MethodCount(), g.InvokeCount())

			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			if err := l.CreateConstraints(); err != nil {
				return err
			}
			nodes, edges, err := l.LoadGraph(g)
			if err != nil {
				return err
			}
			log.Printf("Imported %d nodes and %d edges into graph %q", nodes, edges, graphName)
			return nil
		},
	}

	cmd.Flags().StringVar(&graphName, "graph", "", "Graph name (defaults to the dump directory name)")
	return cmd
}
