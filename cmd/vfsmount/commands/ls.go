package commands

import (
	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [path]",
	Short: "List mounts",
	Long: `List every mount in insertion order, or only the mounts nested
strictly below path.

Examples:
  vfsmount ls
  vfsmount ls /home`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLs,
}

func runLs(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	ctx, q, err := openQuerier(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	var mounts []handlers.MountInfo
	if len(args) == 1 {
		mounts, err = q.NestedMounts(ctx, args[0])
	} else {
		mounts, err = q.ListMounts(ctx)
	}
	if err != nil {
		return err
	}

	return printer.Print(mountList(mounts), "No mounts found.")
}
