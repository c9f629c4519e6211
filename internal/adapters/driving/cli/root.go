// Package cli wires the worksearch commands together. Each command
// builds the parts of the application it needs from the shared config,
// keeping the domain free of flag parsing.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	configfile "github.com/aldrinstellus/worksearch/internal/adapters/driven/config/file"
	embeddingopenai "github.com/aldrinstellus/worksearch/internal/adapters/driven/embedding/openai"
	connectorsrc "github.com/aldrinstellus/worksearch/internal/adapters/driven/sources/connectors"
	"github.com/aldrinstellus/worksearch/internal/adapters/driven/sources/lexical"
	"github.com/aldrinstellus/worksearch/internal/adapters/driven/sources/semantic"
	storagememory "github.com/aldrinstellus/worksearch/internal/adapters/driven/storage/memory"
	"github.com/aldrinstellus/worksearch/internal/adapters/driven/storage/sqlite"
	vectorchromem "github.com/aldrinstellus/worksearch/internal/adapters/driven/vector/chromem"
	vectormemory "github.com/aldrinstellus/worksearch/internal/adapters/driven/vector/memory"
	"github.com/aldrinstellus/worksearch/internal/connectors"
	githubconn "github.com/aldrinstellus/worksearch/internal/connectors/github"
	driveconn "github.com/aldrinstellus/worksearch/internal/connectors/google/drive"
	"github.com/aldrinstellus/worksearch/internal/connectors/remote"
	"github.com/aldrinstellus/worksearch/internal/core/ports/driven"
	"github.com/aldrinstellus/worksearch/internal/core/services"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

var version = "0.1.0"

var (
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "worksearch",
	Short: "Federated search across workplace content sources",
	Long: `worksearch aggregates search across heterogeneous workplace content:
knowledge base documents, articles, news posts, the employee directory
and external federated systems, ranked on a single relevance scale.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false,
		"enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file path (default ~/.worksearch/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// app holds the wired application parts a command needs.
type app struct {
	cfg     *configfile.Config
	search  *services.FederatedSearchService
	store   driven.RecordStore
	index   driven.VectorIndex
	embed   driven.EmbeddingService
	closers []io.Closer
}

// configPath resolves the --config flag or the default location.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return configfile.DefaultPath()
}

// newApp builds the search service and its collaborators from config.
func newApp(ctx context.Context) (*app, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg, err := configfile.Load(path)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	if err := a.wireStorage(); err != nil {
		return nil, err
	}
	a.wireEmbedding()

	registry := services.NewAdapterRegistry()
	registry.Register(lexical.NewArticles(a.store))
	registry.Register(lexical.NewNews(a.store))
	registry.Register(lexical.NewEmployees(a.store))
	registry.Register(semantic.NewInternalKB(a.embed, a.index, a.store))
	registry.Register(semantic.NewKnowledgeItems(a.embed, a.index, a.store))

	connectorAdapter, err := a.buildConnectors(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	registry.Register(connectorAdapter)

	a.search = services.NewFederatedSearchService(registry, services.SearchConfig{
		AdapterTimeout:   cfg.Search.AdapterTimeout(),
		ConnectorTimeout: cfg.Search.ConnectorTimeout(),
	})
	return a, nil
}

// wireStorage selects the record store and vector index backends.
func (a *app) wireStorage() error {
	if a.cfg.Storage.DataDir != "" {
		store, err := sqlite.NewStore(a.cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening record store: %w", err)
		}
		a.store = store
	} else {
		a.store = storagememory.NewRecordStore()
	}
	a.closers = append(a.closers, a.store)

	if a.cfg.Storage.VectorDir != "" {
		index, err := vectorchromem.NewIndex(a.cfg.Storage.VectorDir)
		if err != nil {
			return fmt.Errorf("opening vector index: %w", err)
		}
		a.index = index
	} else {
		a.index = vectormemory.NewIndex()
	}
	a.closers = append(a.closers, a.index)
	return nil
}

// wireEmbedding builds the embedding service when one is configured.
// Without it the knowledge base adapters stay on the lexical path.
func (a *app) wireEmbedding() {
	if !a.cfg.Embedding.Enabled() {
		return
	}
	svc, err := embeddingopenai.NewService(embeddingopenai.Config{
		APIKey:     a.cfg.Embedding.APIKey,
		BaseURL:    a.cfg.Embedding.BaseURL,
		Model:      a.cfg.Embedding.Model,
		Dimensions: a.cfg.Embedding.Dimensions,
	})
	if err != nil {
		logger.Warn("embedding disabled: %v", err)
		return
	}
	a.embed = svc
	a.closers = append(a.closers, svc)
}

// buildConnectors assembles the connector clients named in config.
func (a *app) buildConnectors(ctx context.Context) (*connectorsrc.Adapter, error) {
	var clients []driven.ConnectorClient

	for _, rc := range a.cfg.Connectors.Remote {
		client, err := remote.NewClient(remote.Config{
			Name:     rc.Name,
			Endpoint: rc.Endpoint,
			APIKey:   rc.APIKey,
			Timeout:  time.Duration(rc.TimeoutMs) * time.Millisecond,
			RateLimit: connectors.RateLimitConfig{
				RequestsPerSecond: rc.RequestsPerSecond,
				BurstSize:         rc.BurstSize,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("connector %s: %w", rc.Name, err)
		}
		clients = append(clients, client)
	}

	if a.cfg.Connectors.GitHub.Enabled() {
		client, err := githubconn.NewClient(ctx, githubconn.Config{
			Token: a.cfg.Connectors.GitHub.Token,
			Org:   a.cfg.Connectors.GitHub.Org,
			Repo:  a.cfg.Connectors.GitHub.Repo,
		})
		if err != nil {
			return nil, fmt.Errorf("github connector: %w", err)
		}
		clients = append(clients, client)
	}

	if a.cfg.Connectors.Drive.Enabled() {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.cfg.Connectors.Drive.Token})
		client, err := driveconn.NewClient(ctx, ts)
		if err != nil {
			return nil, fmt.Errorf("drive connector: %w", err)
		}
		clients = append(clients, client)
	}

	adapter := connectorsrc.New(clients...)
	a.closers = append(a.closers, adapter)
	return adapter, nil
}

// Close releases everything newApp opened, in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logger.Warn("closing resources: %v", err)
		}
	}
}
