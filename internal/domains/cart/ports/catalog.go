package ports

import (
	"context"

	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/shared/projection"
)

// ProductSource resolves referenced products for stock checks and display.
// The catalog repository satisfies it structurally.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (*projection.Projection[*catalogdomain.Product], error)
}
