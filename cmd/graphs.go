package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

func graphsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "List stored graphs with node and edge counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			graphs, err := l.ListGraphs()
			if err != nil {
				return err
			}
			if len(graphs) == 0 {
				fmt.Println("No graphs stored")
				return nil
			}
			for _, g := range graphs {
				fmt.Printf("%s\t%d nodes\t%d edges\n", g.Name, g.NodeCount, g.EdgeCount)
			}
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <graph>",
		Short: "Delete a stored graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			nodes, edges, err := l.DeleteGraph(args[0])
			if err != nil {
				return err
			}
			log.Printf("Deleted %d nodes and %d edges", nodes, edges)
			return nil
		},
	}
}
