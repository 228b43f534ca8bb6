package cmd

import (
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mv02/bp-diff-tool/internal/csvdump"
	"github.com/mv02/bp-diff-tool/internal/watcher"
)

func watchCmd() *cobra.Command {
	var graphName string
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <dump-dir>",
		Short: "Re-import the graph whenever the analyzer writes a new dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if graphName == "" {
				graphName = filepath.Base(dir)
			}

			l, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer l.Close()

			if err := l.CreateConstraints(); err != nil {
				return err
			}

			reload := func() {
				g, err := csvdump.Load(dir, graphName)
				if err != nil {
					log.Printf("Skipping reload: %v", err)
					return
				}
				nodes, edges, err := l.LoadGraph(g)
				if err != nil {
					log.Printf("Import failed: %v", err)
					return
				}
				log.Printf("Imported %d nodes and %d edges into graph %q", nodes, edges, graphName)
			}

			// Import whatever is already there, then watch.
			reload()

			w, err := watcher.New(dir, reload,
				watcher.WithDebounceDelay(debounce),
				watcher.WithOnError(func(err error) {
					log.Printf("Watch error: %v", err)
				}),
			)
			if err != nil {
				return err
			}
			defer w.Close()
			go w.Start()

			log.Printf("Watching %s (ctrl-c to stop)", dir)
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			return nil
		},
	}

	cmd.Flags().StringVar(&graphName, "graph", "", "Graph name (defaults to the dump directory name)")
	cmd.Flags().DurationVar(&debounce, "debounce", 2*time.Second, "Quiet period before a dump is re-imported")
	return cmd
}
