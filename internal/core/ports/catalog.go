package ports

import (
	"context"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

// ProductRepository owns the local product snapshot. The snapshot is only
// ever replaced wholesale by a completed Refresh; readers never observe a
// partially applied list.
type ProductRepository interface {
	// Refresh fetches the full list from the remote source and, on success,
	// installs it as the new snapshot. The returned slice is the list that
	// was fetched, which is not necessarily the snapshot left installed if
	// another Refresh resolved after this one.
	Refresh(ctx context.Context) ([]domain.Product, error)

	// Snapshot returns a copy of the current raw snapshot.
	Snapshot() []domain.Product

	// Catalog returns the classified, image-resolved view of the snapshot.
	Catalog() []domain.CatalogItem
}

// SessionGate tracks whether the operator is authenticated and gates
// mutation calls on that state.
type SessionGate interface {
	Login(ctx context.Context, password string) error
	// Logout is best-effort remotely; the local state is always
	// unauthenticated after it returns.
	Logout(ctx context.Context) error
	Authenticated() bool
	// Invalidate drops the local session, used when a mutation sees a 401.
	Invalidate()
}

// CatalogAdmin orchestrates authenticated mutations followed by a
// resynchronizing Refresh.
type CatalogAdmin interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// SnapshotPublisher receives every accepted snapshot, already classified and
// resolved, for hand-off to out-of-process consumers.
type SnapshotPublisher interface {
	Publish(ctx context.Context, items []domain.CatalogItem) error
}
