package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/marudhara-crafts/catalog-sync/internal/core/service"
	"github.com/marudhara-crafts/catalog-sync/internal/infrastructure/config"
	"github.com/marudhara-crafts/catalog-sync/internal/infrastructure/remote"
	"github.com/marudhara-crafts/catalog-sync/pkg/imageurl"
	"github.com/marudhara-crafts/catalog-sync/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Catalog sync layer for the Marudhara Crafts storefront",
	Long: `catalogctl keeps a local, classified view of the storefront product
catalog in sync with the remote backend and drives authenticated admin
mutations against it.

Configuration comes from the environment: API_BASE, ADMIN_PASSWORD,
PLACEHOLDER_IMAGE, LOG_LEVEL, PORT, REFRESH_INTERVAL, REDIS_ADDR.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(watchCmd)
}

// app bundles the wired service graph behind every command.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	client  *remote.Client
	catalog *service.CatalogService
	gate    *service.SessionGate
	admin   *service.AdminService
}

// newApp loads config, initialises logging, and wires the service graph.
// Catalog options (fencing, publisher) vary per command.
func newApp(ctx context.Context, opts ...service.CatalogOption) (*app, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	return buildApp(cfg, opts...)
}

// buildApp wires the service graph from an already loaded config.
func buildApp(cfg *config.Config, opts ...service.CatalogOption) (*app, error) {
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.PrettyLogs})

	client, err := remote.NewClient(cfg.APIBase)
	if err != nil {
		return nil, err
	}

	resolver := imageurl.NewResolver(cfg.APIBase, cfg.PlaceholderImage)
	catalog := service.NewCatalogService(client, resolver, log, opts...)
	gate := service.NewSessionGate(client, log)
	admin := service.NewAdminService(client, catalog, gate, log)

	return &app{
		cfg:     cfg,
		log:     log,
		client:  client,
		catalog: catalog,
		gate:    gate,
		admin:   admin,
	}, nil
}
