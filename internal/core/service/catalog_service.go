package service

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/ports"
	"github.com/marudhara-crafts/catalog-sync/internal/metrics"
	"github.com/marudhara-crafts/catalog-sync/pkg/imageurl"
)

// CatalogService holds the local product snapshot and is the only component
// that talks to the remote list endpoint.
//
// The snapshot is mutated exclusively by replacement when a Refresh
// completes. With several Refresh calls in flight the snapshot left
// installed is the one whose response resolved last, even if that call was
// issued earlier — there is no request cancellation. WithFencing opts into
// the stricter policy of discarding responses that resolve after a
// later-issued refresh has already been applied. Under either policy a
// reader never observes a torn or partially merged list.
type CatalogService struct {
	remote    ports.RemoteCatalog
	resolver  imageurl.Resolver
	publisher ports.SnapshotPublisher
	logger    zerolog.Logger
	fencing   bool

	issued atomic.Uint64

	mu       sync.RWMutex
	snapshot []domain.Product
	applied  uint64
}

// CatalogOption configures a CatalogService.
type CatalogOption func(*CatalogService)

// WithFencing tags every refresh with a monotonically increasing token and
// discards responses older than the last applied one.
func WithFencing() CatalogOption {
	return func(s *CatalogService) { s.fencing = true }
}

// WithPublisher forwards every accepted snapshot, classified and resolved,
// to the given publisher. Publish failures are logged, never fatal.
func WithPublisher(p ports.SnapshotPublisher) CatalogOption {
	return func(s *CatalogService) { s.publisher = p }
}

func NewCatalogService(remote ports.RemoteCatalog, resolver imageurl.Resolver, logger zerolog.Logger, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{remote: remote, resolver: resolver, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh fetches the full product list and installs it as the new
// snapshot. The returned slice is the fetched list; under concurrent
// refreshes the installed snapshot may belong to another call.
func (s *CatalogService) Refresh(ctx context.Context) ([]domain.Product, error) {
	token := s.issued.Add(1)

	products, err := s.remote.ListProducts(ctx)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("error").Inc()
		s.logger.Error().Err(err).Msg("product list refresh failed")
		return nil, err
	}

	s.mu.Lock()
	if s.fencing && token < s.applied {
		s.mu.Unlock()
		metrics.RefreshesTotal.WithLabelValues("stale").Inc()
		s.logger.Debug().Uint64("token", token).Msg("discarding stale refresh response")
		return products, nil
	}
	s.snapshot = products
	s.applied = token
	s.mu.Unlock()

	metrics.RefreshesTotal.WithLabelValues("ok").Inc()
	metrics.SnapshotSize.Set(float64(len(products)))
	s.logger.Info().Int("products", len(products)).Msg("snapshot replaced")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, s.decorate(products)); err != nil {
			s.logger.Warn().Err(err).Msg("snapshot publish failed")
		}
	}
	return products, nil
}

// Snapshot returns a copy of the current raw snapshot.
func (s *CatalogService) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}

// Catalog returns the classified, image-resolved view of the snapshot.
// Categories are recomputed on every call so they can never go stale
// relative to the underlying fields.
func (s *CatalogService) Catalog() []domain.CatalogItem {
	return s.decorate(s.Snapshot())
}

func (s *CatalogService) decorate(products []domain.Product) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(products))
	for _, p := range products {
		items = append(items, domain.CatalogItem{
			Product:  p,
			Category: Classify(p),
			ImageURL: s.resolver.Resolve(p.Image),
		})
	}
	return items
}

// GroupCatalog buckets items by category, preserving the remote order
// inside each bucket.
func GroupCatalog(items []domain.CatalogItem) map[domain.Category][]domain.CatalogItem {
	grouped := make(map[domain.Category][]domain.CatalogItem, len(domain.CategoryOrder))
	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped
}
