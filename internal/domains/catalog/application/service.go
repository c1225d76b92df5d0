package application

import (
	"context"
	"errors"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/domains/catalog/ports"
	"github.com/shopora/shop-api/internal/shared/projection"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// AddProduct persists a new catalog aggregate.
func (s *Service) AddProduct(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Rename(product.Name); err != nil {
		return nil, mapError(err)
	}
	if err := product.Reprice(product.Price); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// GetProductByID loads a single product.
func (s *Service) GetProductByID(ctx context.Context, id int64) (*projection.Projection[*domain.Product], error) {
	return s.repo.GetByID(ctx, id)
}

// ListProducts returns every persisted product.
func (s *Service) ListProducts(ctx context.Context) ([]*projection.Projection[*domain.Product], error) {
	return s.repo.List(ctx)
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// AvailableStock answers the ledger query for a (product, size) key.
func (s *Service) AvailableStock(ctx context.Context, productID int64, size string) (int, error) {
	proj, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	available, err := proj.Entity.AvailableStock(size)
	if err != nil {
		return 0, mapError(err)
	}
	return available, nil
}

// RestockProduct replaces the stock level for one (product, size) bucket.
func (s *Service) RestockProduct(ctx context.Context, productID int64, size string, quantity int) (*projection.Projection[*domain.Product], error) {
	proj, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := proj.Entity.SetStock(size, quantity); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, proj.Entity)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
