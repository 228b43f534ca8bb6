package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mv02/bp-diff-tool/internal/csvdump"
)

func printCmd() *cobra.Command {
	var graphName string

	cmd := &cobra.Command{
		Use:   "print <dump-dir>",
		Short: "Print every invoke record of a dump (no database needed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := csvdump.Load(args[0], graphName)
			if err != nil {
				return err
			}

			for _, m := range g.Methods() {
				if len(m.Invokes()) == 0 {
					continue
				}
				fmt.Println(m.FullName())
				for _, inv := range m.Invokes() {
					fmt.Printf("  %s\n", inv)
				}
			}
			fmt.Printf("%d methods, %d invoke sites\n", g.MethodCount(), g.InvokeCount())
			return nil
		},
	}

	cmd.Flags().StringVar(&graphName, "graph", "dump", "Graph name used in the output")
	return cmd
}
