package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <graph>",
		Short: "Print a graph's methods grouped by declaring class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			methods, err := l.MethodTree(args[0])
			if err != nil {
				return err
			}

			var class string
			for _, m := range methods {
				if m.Class != class {
					class = m.Class
					fmt.Println(class)
				}
				fmt.Printf("  %s\n", m.Name)
			}
			fmt.Printf("%d methods\n", len(methods))
			return nil
		},
	}
}
