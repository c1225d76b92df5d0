package ports

import (
	"context"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/shared/projection"
)

// Service exposes catalog use cases to adapters.
type Service interface {
	AddProduct(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error)
	GetProductByID(ctx context.Context, id int64) (*projection.Projection[*domain.Product], error)
	ListProducts(ctx context.Context) ([]*projection.Projection[*domain.Product], error)
	DeleteProduct(ctx context.Context, id int64) error
	AvailableStock(ctx context.Context, productID int64, size string) (int, error)
	RestockProduct(ctx context.Context, productID int64, size string, quantity int) (*projection.Projection[*domain.Product], error)
}
