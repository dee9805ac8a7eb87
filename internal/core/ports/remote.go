package ports

import (
	"context"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
)

// RemoteCatalog is the read side of the storefront backend.
type RemoteCatalog interface {
	// ListProducts fetches the full product list in remote display order.
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// RemoteAuth covers the session endpoints. The session credential itself is
// opaque to this layer (cookie held by the transport).
type RemoteAuth interface {
	Login(ctx context.Context, password string) error
	Logout(ctx context.Context) error
}

// RemoteAdmin covers the authenticated mutation endpoints.
type RemoteAdmin interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ImageUpload is a file payload for a create or update call.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// CreateProductInput carries the fields of a new product. Price is a pointer
// so a missing price is distinguishable from a legitimate zero price.
type CreateProductInput struct {
	Name        string       `validate:"required"`
	Price       *float64     `validate:"required,gte=0"`
	Description *string      `validate:"-"`
	Image       *ImageUpload `validate:"required"`
}

// UpdateProductInput carries the fields of an update. A nil Image means
// "retain the existing image", never "clear it".
type UpdateProductInput struct {
	Name        string       `validate:"required"`
	Price       *float64     `validate:"required,gte=0"`
	Description *string      `validate:"-"`
	Image       *ImageUpload `validate:"-"`
}
