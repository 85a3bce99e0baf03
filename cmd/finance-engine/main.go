package main

import (
	"os"

	"github.com/ohjona/finance-engine-2.0/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
