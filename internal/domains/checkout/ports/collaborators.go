package ports

import (
	"context"

	cartdomain "github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	ordersdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/shared/projection"
)

// InventoryLedger is the slice of the catalog the orchestrator needs: reading
// products for validation and pricing, and the all-or-nothing stock commit.
// The catalog repository satisfies it structurally.
type InventoryLedger interface {
	GetByID(ctx context.Context, id int64) (*projection.Projection[*catalogdomain.Product], error)
	ReserveStock(ctx context.Context, reservations []catalogdomain.Reservation) error
}

// CartStore reads and clears the cart being converted into an order. The cart
// repository satisfies it structurally.
type CartStore interface {
	GetByUser(ctx context.Context, userID int64) (*cartdomain.Cart, error)
	Clear(ctx context.Context, userID int64) error
}

// OrderStore persists the committed receipt. The orders repository satisfies
// it structurally.
type OrderStore interface {
	Save(ctx context.Context, order *ordersdomain.Order) (*ordersdomain.Order, error)
	GetByID(ctx context.Context, id int64) (*ordersdomain.Order, error)
}

// UserDirectory appends the order reference to the buyer's account. The users
// repository satisfies it structurally.
type UserDirectory interface {
	AttachOrder(ctx context.Context, userID, orderID int64) error
}
