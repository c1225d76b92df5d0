package ports

import "context"

// OwnerDirectory detaches deleted orders from their owner's order list. The
// users repository satisfies it structurally.
type OwnerDirectory interface {
	DetachOrder(ctx context.Context, userID, orderID int64) error
}
