package main

import (
	"os"

	"github.com/onyxpm/onyx_backend/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
