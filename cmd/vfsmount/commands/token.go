package commands

import (
	"fmt"
	"time"

	"github.com/marmos91/vfsmount/pkg/api/auth"
	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long: `Issue a bearer token signed with api.jwt_secret from the configuration.

Examples:
  vfsmount token --user alice --ttl 24h
  export VFSMOUNT_TOKEN=$(vfsmount token --user alice)
  vfsmount ls --server http://localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user the token is issued to (required)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	_ = tokenCmd.MarkFlagRequired("user")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.API.JWTSecret == "" {
		return fmt.Errorf("api.jwt_secret is not configured")
	}

	tokens, err := auth.NewTokenService(cfg.API.JWTSecret)
	if err != nil {
		return err
	}

	token, err := tokens.Issue(tokenUser, tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
