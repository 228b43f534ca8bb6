package main

import (
	"os"

	"github.com/mv02/bp-diff-tool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
