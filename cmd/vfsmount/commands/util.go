package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/marmos91/vfsmount/internal/cli/output"
	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/pkg/apiclient"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/config"
	"github.com/marmos91/vfsmount/pkg/mount"
	"github.com/spf13/cobra"
)

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	loggerCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if err := logger.Init(loggerCfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig loads the configuration selected by --config and initializes
// the logger from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// commandContext tags the command's context with a fresh session id.
func commandContext(cmd *cobra.Command) context.Context {
	lc := logger.NewLogContext(uuid.NewString()).WithCommand(cmd.Name())
	return logger.WithContext(cmd.Context(), lc)
}

// openQuerier returns the remote server client when --server is set, and a
// local session on the configuration otherwise.
func openQuerier(cmd *cobra.Command) (context.Context, querier, error) {
	ctx := commandContext(cmd)
	if serverURL != "" {
		client := apiclient.New(serverURL)
		if token := bearerToken(); token != "" {
			client = client.WithToken(token)
		}
		return ctx, client, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := newSession(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ctx, s, nil
}

// bearerToken returns --token, falling back to $VFSMOUNT_TOKEN.
func bearerToken() string {
	if apiToken != "" {
		return apiToken
	}
	return os.Getenv("VFSMOUNT_TOKEN")
}

// session is one command's view of the local mount table.
type session struct {
	ctx     context.Context
	cfg     *config.Config
	catalog catalog.Catalog
	manager *mount.Manager
}

// newSession opens the catalog and builds the manager. Mounts are built
// lazily by the manager's first query.
func newSession(ctx context.Context, cfg *config.Config, opts ...mount.Option) (*session, error) {
	cat, err := config.OpenCatalog(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	return &session{
		ctx:     ctx,
		cfg:     cfg,
		catalog: cat,
		manager: config.NewManager(ctx, cfg, cat, opts...),
	}, nil
}

func (s *session) normalize(p string) string {
	return mount.DefaultNormalizer.Normalize(p)
}

// Close releases the catalog.
func (s *session) Close() error {
	if err := s.catalog.Close(); err != nil {
		logger.WarnCtx(s.ctx, "Failed to close catalog", logger.KeyError, err)
		return err
	}
	return nil
}

func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewPrinter(cmd.OutOrStdout(), format), nil
}
