package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/marudhara-crafts/catalog-sync/internal/api"
	"github.com/marudhara-crafts/catalog-sync/internal/core/service"
	"github.com/marudhara-crafts/catalog-sync/internal/infrastructure/config"
	"github.com/marudhara-crafts/catalog-sync/internal/infrastructure/publish"
)

var flagFencing bool

// watchCmd keeps the snapshot fresh on an interval, publishes it to Redis
// when configured, and serves the observability sidecar.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Continuously sync the catalog and serve the sidecar",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&flagFencing, "fencing", false, "discard refresh responses that resolve after a later-issued one was applied")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	var opts []service.CatalogOption
	if flagFencing {
		opts = append(opts, service.WithFencing())
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = publish.Connect(ctx, publish.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts = append(opts, service.WithPublisher(
			publish.NewRedisPublisher(rdb, cfg.Redis.Key, cfg.Redis.Channel),
		))
	}

	a, err := buildApp(cfg, opts...)
	if err != nil {
		return err
	}

	server := api.NewServer(a.catalog, a.client, rdb, a.log)
	go func() {
		if err := server.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error().Err(err).Msg("sidecar server stopped")
		}
	}()

	a.log.Info().
		Str("port", cfg.Port).
		Dur("interval", cfg.RefreshInterval).
		Msg("watch started")

	if _, err := a.catalog.Refresh(ctx); err != nil {
		a.log.Warn().Err(err).Msg("initial refresh failed, retrying on interval")
	}

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			if _, err := a.catalog.Refresh(ctx); err != nil {
				a.log.Warn().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}
