package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/domains/catalog/ports"
	"github.com/shopora/shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog adapter used for demos/tests.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*storedProduct
	nextID   int64
	now      func() time.Time
}

type storedProduct struct {
	product  *domain.Product
	metadata projection.Metadata
}

// NewRepository constructs an empty in-memory catalog.
func NewRepository() *Repository {
	return &Repository{
		products: map[int64]*storedProduct{},
		now:      time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Save inserts or replaces a product while maintaining metadata.
func (r *Repository) Save(_ context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		r.nextID++
		product.ID = r.nextID
	} else if product.ID > r.nextID {
		r.nextID = product.ID
	}

	timestamp := r.now()
	metadata := projection.Metadata{CreatedAt: timestamp, UpdatedAt: timestamp}
	if entry, ok := r.products[product.ID]; ok {
		metadata.CreatedAt = entry.metadata.CreatedAt
	}

	stored := &storedProduct{product: cloneProduct(product), metadata: metadata}
	r.products[product.ID] = stored
	return projectionCopy(stored), nil
}

// GetByID fetches a product if present.
func (r *Repository) GetByID(_ context.Context, id int64) (*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return projectionCopy(entry), nil
}

// Delete removes a product.
func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// List returns every stored product.
func (r *Repository) List(_ context.Context) ([]*projection.Projection[*domain.Product], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*projection.Projection[*domain.Product], 0, len(r.products))
	for _, entry := range r.products {
		list = append(list, projectionCopy(entry))
	}
	return list, nil
}

// ReserveStock validates every reservation against cloned aggregates, then
// commits the clones in one critical section. Either every decrement lands or
// the stored stock is untouched.
func (r *Repository) ReserveStock(_ context.Context, reservations []domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	staged := make(map[int64]*domain.Product, len(reservations))
	for _, res := range reservations {
		product, ok := staged[res.ProductID]
		if !ok {
			entry, found := r.products[res.ProductID]
			if !found {
				return ports.ErrNotFound
			}
			product = cloneProduct(entry.product)
			staged[res.ProductID] = product
		}
		if err := product.Reserve(res.Size, res.Quantity); err != nil {
			return err
		}
	}

	timestamp := r.now()
	for id, product := range staged {
		entry := r.products[id]
		entry.product = product
		entry.metadata.UpdatedAt = timestamp
	}
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	clone := *p
	clone.ImageURLs = append([]string{}, p.ImageURLs...)
	clone.SizeRange = append([]string{}, p.SizeRange...)
	if p.Stock.BySize != nil {
		clone.Stock.BySize = make(map[string]int, len(p.Stock.BySize))
		for size, qty := range p.Stock.BySize {
			clone.Stock.BySize[size] = qty
		}
	}
	return &clone
}

func projectionCopy(entry *storedProduct) *projection.Projection[*domain.Product] {
	return &projection.Projection[*domain.Product]{
		Entity:   cloneProduct(entry.product),
		Metadata: entry.metadata,
	}
}
