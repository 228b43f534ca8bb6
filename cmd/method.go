package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mv02/bp-diff-tool/internal/loader"
)

func methodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "method <graph> <id>",
		Short: "Show a method and the shortest entry-point path to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			detail, err := l.MethodByID(args[0], args[1])
			if err != nil {
				return err
			}

			printMethod(detail.Method)
			if len(detail.EntryPath) == 0 {
				fmt.Println("not reachable from an entry point")
				return nil
			}
			fmt.Println("entry-point path:")
			for _, m := range detail.EntryPath {
				fmt.Printf("  %s.%s\n", m.Class, m.Name)
			}
			return nil
		},
	}
}

func callersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callers <graph> <id>",
		Short: "List the methods calling a method",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			callers, err := l.MethodCallers(args[0], args[1])
			if err != nil {
				return err
			}
			printMethodList(callers)
			return nil
		},
	}
}

func calleesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "callees <graph> <id>",
		Short: "List the methods a method calls",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			callees, err := l.MethodCallees(args[0], args[1])
			if err != nil {
				return err
			}
			printMethodList(callees)
			return nil
		},
	}
}

func printMethod(m loader.TreeMethod) {
	fmt.Printf("%s.%s (id %s)\n", m.Class, m.Name, m.ID)
}

func printMethodList(methods []loader.TreeMethod) {
	if len(methods) == 0 {
		fmt.Println("none")
		return
	}
	for _, m := range methods {
		printMethod(m)
	}
}
