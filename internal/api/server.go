// Package api serves the watch-mode sidecar: health probes, Prometheus
// metrics, and the read-only classified catalog hand-off for the
// presentation layer.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
	"github.com/marudhara-crafts/catalog-sync/internal/core/service"
)

// Server is the sidecar HTTP server. It never mutates anything: every route
// reads the local snapshot or probes a dependency.
type Server struct {
	echo   *echo.Echo
	repo   ports.ProductRepository
	remote ports.RemoteCatalog
	redis  *redis.Client // nil when publishing is disabled
	logger zerolog.Logger
}

// NewServer builds the sidecar with all routes registered.
func NewServer(repo ports.ProductRepository, remote ports.RemoteCatalog, rdb *redis.Client, logger zerolog.Logger) *Server {
	s := &Server{repo: repo, remote: remote, redis: rdb, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("catalog_sidecar"))

	e.GET("/healthz", s.handleLiveness)
	e.GET("/readyz", s.handleReadiness)
	e.GET("/catalog", s.handleCatalog)
	e.GET("/metrics", echoprometheus.NewHandler())

	s.echo = e
	return s
}

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// handleReadiness probes the storefront backend and, when configured, the
// Redis hand-off channel.
func (s *Server) handleReadiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus)
	healthy := true

	if _, err := s.remote.ListProducts(ctx); err != nil {
		deps["backend"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		healthy = false
	} else {
		deps["backend"] = dependencyStatus{Status: "ok"}
	}

	if s.redis != nil {
		if _, err := s.redis.Ping(ctx).Result(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		s.logger.Warn().Interface("dependencies", deps).Msg("readiness degraded")
	}
	return c.JSON(httpStatus, readinessResponse{Status: status, Dependencies: deps})
}

type catalogSection struct {
	Category domain.Category      `json:"category"`
	Label    string               `json:"label"`
	Items    []domain.CatalogItem `json:"items"`
}

type catalogResponse struct {
	Sections []catalogSection `json:"sections"`
}

// handleCatalog renders the current snapshot, classified and resolved,
// grouped into the fixed category sections.
func (s *Server) handleCatalog(c echo.Context) error {
	grouped := service.GroupCatalog(s.repo.Catalog())

	sections := make([]catalogSection, 0, len(domain.CategoryOrder))
	for _, cat := range domain.CategoryOrder {
		items := grouped[cat]
		if items == nil {
			items = []domain.CatalogItem{}
		}
		sections = append(sections, catalogSection{
			Category: cat,
			Label:    domain.CategoryLabels[cat],
			Items:    items,
		})
	}
	return c.JSON(http.StatusOK, catalogResponse{Sections: sections})
}
