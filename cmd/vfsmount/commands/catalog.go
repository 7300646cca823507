package commands

import (
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the storage catalog",
	Long: `List every storage registered in the catalog with its numeric id.
Mounts declared in the configuration are registered before listing.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	ctx, q, err := openQuerier(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = q.Close() }()

	entries, err := q.Catalog(ctx)
	if err != nil {
		return err
	}
	return printer.Print(catalogList(entries), "Catalog is empty.")
}
