package main

import (
	"os"

	"github.com/banktotal-dev/banktotal/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
