package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/vfsmount/pkg/config"
	"github.com/marmos91/vfsmount/pkg/mount"
	"github.com/spf13/cobra"
)

var schemaFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration file",
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schema for configuration",
	Long: `Generate a JSON schema for the vfsmount configuration file.

Point your editor's YAML language server at it for completion and validation.

Examples:
  # Print schema to stdout
  vfsmount config schema

  # Save schema to file
  vfsmount config schema --file config.schema.json`,
	Args: cobra.NoArgs,
	RunE: runConfigSchema,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the vfsmount configuration file.

Checks for syntax errors, missing required fields and invalid values,
then prints a short summary of the mount table it describes.

Examples:
  vfsmount config validate --config /etc/vfsmount/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	configSchemaCmd.Flags().StringVarP(&schemaFile, "file", "f", "", "Output file (default: stdout)")
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigSchema(cmd *cobra.Command, args []string) error {
	schema, err := config.JSONSchema()
	if err != nil {
		return err
	}

	if schemaFile != "" {
		if err := os.WriteFile(schemaFile, schema, 0644); err != nil {
			return fmt.Errorf("failed to write schema file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "JSON schema written to %s\n", schemaFile)
		return nil
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(schema))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	configPath := GetConfigFile()

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.API.JWTSecret == "" {
		warnings = append(warnings, "jwt_secret not set - the resolution API accepts unauthenticated requests")
	}
	if cfg.Catalog.Type == config.CatalogMemory {
		warnings = append(warnings, "memory catalog - numeric storage ids change between runs")
	}
	if !hasRootMount(cfg.Mounts) {
		warnings = append(warnings, "no mount at / - paths outside the declared mounts will not resolve")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file: %s\n", configPath)
	fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	fmt.Fprintf(out, "\nConfiguration summary:\n")
	fmt.Fprintf(out, "  Catalog type:    %s\n", cfg.Catalog.Type)
	fmt.Fprintf(out, "  Mounts:          %d\n", len(cfg.Mounts))
	fmt.Fprintf(out, "  API port:        %d\n", cfg.API.Port)
	fmt.Fprintf(out, "  Log level:       %s\n", cfg.Logging.Level)

	return nil
}

func hasRootMount(mounts []config.MountConfig) bool {
	for _, m := range mounts {
		if mount.DefaultNormalizer.Normalize(m.Path) == "/" {
			return true
		}
	}
	return false
}
