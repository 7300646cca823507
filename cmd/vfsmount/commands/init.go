package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marmos91/vfsmount/internal/cli/prompt"
	"github.com/marmos91/vfsmount/pkg/config"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample vfsmount configuration file.

By default, the configuration file is created at $XDG_CONFIG_HOME/vfsmount/config.yaml.
Use --config to specify a custom path.

Examples:
  # Initialize with default location
  vfsmount init

  # Initialize with custom path
  vfsmount init --config /etc/vfsmount/config.yaml

  # Pick the catalog, data root and API port interactively
  vfsmount init --interactive

  # Force overwrite existing config
  vfsmount init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for catalog, data root and API port")
}

var catalogChoices = []prompt.SelectOption{
	{Label: "sqlite", Value: config.CatalogSQLite, Description: "Single-file database next to the config"},
	{Label: "memory", Value: config.CatalogMemory, Description: "Numeric ids are lost on restart"},
	{Label: "badger", Value: config.CatalogBadger, Description: "Embedded key-value store"},
	{Label: "postgres", Value: config.CatalogPostgres, Description: "Shared catalog, edit the postgres section afterwards"},
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	opts := config.DefaultInitOptions(filepath.Dir(configPath))
	force := initForce

	if initInteractive {
		if !stdinIsTerminal() {
			return errors.New("--interactive requires a terminal")
		}

		if config.ConfigExists(configPath) && !force {
			ok, err := prompt.Confirm(fmt.Sprintf("Overwrite %s", configPath), false)
			if err != nil {
				return err
			}
			if !ok {
				return prompt.ErrAborted
			}
			force = true
		}

		var err error
		if opts, err = promptInitOptions(opts); err != nil {
			return err
		}
	}

	if err := config.InitConfigWithOptions(configPath, force, opts); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintln(out, "  1. Declare your mounts in the configuration file")
	fmt.Fprintln(out, "  2. Check the mount table with: vfsmount ls")
	fmt.Fprintf(out, "  3. Or serve it over HTTP: vfsmount serve --config %s\n", configPath)

	return nil
}

func promptInitOptions(opts config.InitOptions) (config.InitOptions, error) {
	catalogType, err := prompt.Select("Catalog", catalogChoices)
	if err != nil {
		return opts, err
	}
	opts.CatalogType = catalogType

	if opts.DataRoot, err = prompt.Input("Data root for /", opts.DataRoot); err != nil {
		return opts, err
	}

	if opts.APIPort, err = prompt.InputPort("API port", opts.APIPort); err != nil {
		return opts, err
	}

	return opts, nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
