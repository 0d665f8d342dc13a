package main

import (
	"fmt"
	"os"

	"github.com/thenoetrevino/tareas/cmd"
	"github.com/thenoetrevino/tareas/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		}
		os.Exit(cli.ExitCodeFor(err))
	}
}
