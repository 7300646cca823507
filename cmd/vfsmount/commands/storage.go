package commands

import (
	"fmt"

	"github.com/marmos91/vfsmount/pkg/api/handlers"
	"github.com/spf13/cobra"
)

var storageNumericID int64

var storageCmd = &cobra.Command{
	Use:   "storage [storage-id]",
	Short: "List the mounts backed by a storage",
	Long: `List the mounts whose storage matches a storage id, or a numeric id
from the storage catalog.

Examples:
  vfsmount storage local::/srv/data/
  vfsmount storage --numeric 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStorage,
}

func init() {
	storageCmd.Flags().Int64Var(&storageNumericID, "numeric", 0, "Look up by catalog numeric id")
}

func runStorage(cmd *cobra.Command, args []string) error {
	byNumeric := cmd.Flags().Changed("numeric")
	if byNumeric == (len(args) == 1) {
		return fmt.Errorf("specify either a storage id or --numeric")
	}

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
	if byNumeric {
		mounts, err = q.MountsByNumericID(ctx, storageNumericID)
	} else {
		mounts, err = q.MountsByStorageID(ctx, args[0])
	}
	if err != nil {
		return err
	}

	return printer.Print(mountList(mounts), "No mounts use this storage.")
}
