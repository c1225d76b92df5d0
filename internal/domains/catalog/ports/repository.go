package ports

import (
	"context"
	"errors"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/shared/projection"
)

var ErrNotFound = errors.New("product not found")

// Repository persists products and exposes the inventory ledger primitive.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error)
	GetByID(ctx context.Context, id int64) (*projection.Projection[*domain.Product], error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*projection.Projection[*domain.Product], error)
	// ReserveStock applies every reservation or none of them. Each line is a
	// conditional decrement guarded on current availability; the adapter must
	// never compute availability and write the new level in separate steps.
	ReserveStock(ctx context.Context, reservations []domain.Reservation) error
}
