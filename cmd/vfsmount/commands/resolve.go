package commands

import (
	"errors"
	"fmt"

	"github.com/marmos91/vfsmount/internal/cli/output"
	"github.com/marmos91/vfsmount/pkg/apiclient"
	"github.com/marmos91/vfsmount/pkg/mount"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Show the mount that owns a path",
	Long: `Resolve a path to the mount with the longest matching mount point and
print the path relative to that mount's storage root.

Examples:
  vfsmount resolve /home/alice/notes.txt
  vfsmount resolve /data -o json
  vfsmount resolve /data --server http://localhost:8080`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	ctx, q, err := openQuerier(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	res, err := q.Resolve(ctx, args[0])
	if err != nil {
		if errors.Is(err, mount.ErrNotFound) || apiclient.IsNotFound(err) {
			return fmt.Errorf("no mount owns %s: %w", args[0], err)
		}
		return err
	}

	if printer.Format() == output.FormatTable {
		return printer.Print(resolutionTable(res), "")
	}
	return printer.Print(res, "")
}
