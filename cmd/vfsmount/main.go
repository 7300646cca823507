package main

import (
	"fmt"
	"os"

	"github.com/marmos91/vfsmount/cmd/vfsmount/commands"
	"github.com/marmos91/vfsmount/internal/cli/prompt"
)

// Build-time variables injected via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		if prompt.IsAborted(err) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
