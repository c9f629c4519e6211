package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	configfile "github.com/aldrinstellus/worksearch/internal/adapters/driven/config/file"
	"github.com/aldrinstellus/worksearch/internal/adapters/driving/httpapi"
	"github.com/aldrinstellus/worksearch/internal/core/services"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search HTTP API",
	Long: `Start the federated search HTTP API.

Endpoints:
  GET|POST /api/v1/search   run a federated search
  GET      /healthz         liveness probe

The search tuning section of the config file is watched and reloaded
without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := watchConfig(ctx, a); err != nil {
		// config reload is a convenience, not a requirement
		logger.Warn("config watching disabled: %v", err)
	}

	addr := flagAddr
	if addr == "" {
		addr = a.cfg.Server.Addr
	}

	server := httpapi.NewServer(addr, a.search)
	return server.Start(ctx)
}

// watchConfig reloads the search tuning section on file changes.
func watchConfig(ctx context.Context, a *app) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	watcher, err := configfile.NewWatcher(path)
	if err != nil {
		return err
	}

	watcher.Start(ctx, func(cfg *configfile.Config) {
		a.search.SetConfig(services.SearchConfig{
			AdapterTimeout:   cfg.Search.AdapterTimeout(),
			ConnectorTimeout: cfg.Search.ConnectorTimeout(),
		})
	})
	return nil
}
