// Package commands implements the vfsmount CLI.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile      string
	outputFormat string
	serverURL    string
	apiToken     string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vfsmount",
	Short: "vfsmount - virtual filesystem mount registry",
	Long: `vfsmount maps logical path prefixes to storage backends and resolves
any path to the backend that owns it.

Mounts are declared in the configuration file and registered in a storage
catalog that assigns each backend a stable numeric id.

Use "vfsmount [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/vfsmount/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "query a vfsmount server (e.g. http://localhost:8080) instead of the local configuration")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "bearer token for --server (default: $VFSMOUNT_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(storageCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(logsCmd)
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
