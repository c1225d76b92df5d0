package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/shopora/shop-api/internal/domains/cart/domain"
	"github.com/shopora/shop-api/internal/domains/cart/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps one cart per user in memory. The mutex serializes
// structural modification of any single cart.
type Repository struct {
	mu    sync.RWMutex
	carts map[int64]*domain.Cart
}

func NewRepository() *Repository {
	return &Repository{carts: map[int64]*domain.Cart{}}
}

// GetByUser returns the stored cart or a fresh empty one.
func (r *Repository) GetByUser(_ context.Context, userID int64) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cart, ok := r.carts[userID]
	if !ok {
		return domain.NewCart(userID), nil
	}
	return cart.Clone(), nil
}

// Save replaces the stored cart wholesale.
func (r *Repository) Save(_ context.Context, cart *domain.Cart) error {
	if cart == nil {
		return errors.New("cannot save nil cart")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts[cart.UserID] = cart.Clone()
	return nil
}

// Clear drops the user's cart.
func (r *Repository) Clear(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, userID)
	return nil
}
