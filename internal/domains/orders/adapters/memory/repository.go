package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.Number != "" {
		for id, existing := range r.orders {
			if id != clone.ID && existing.Number == clone.Number {
				return nil, ports.ErrDuplicateNumber
			}
		}
	}
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	r.orders[clone.ID] = clone
	order.ID = clone.ID
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *Repository) List(_ context.Context, status *domain.Status) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if status != nil && order.Status != *status {
			continue
		}
		list = append(list, cloneOrder(order))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) ListByUser(_ context.Context, userID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var list []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *Repository) Summary(_ context.Context) (ports.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary := ports.Summary{Revenue: decimal.Zero, AverageValue: decimal.Zero}
	for _, order := range r.orders {
		summary.Orders++
		summary.Revenue = summary.Revenue.Add(order.Total)
	}
	if summary.Orders > 0 {
		summary.AverageValue = summary.Revenue.Div(decimal.NewFromInt(summary.Orders))
	}
	return summary, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.Line{}, order.Lines...)
	return &clone
}
