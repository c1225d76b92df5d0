package application

import (
	"context"

	"github.com/shopora/shop-api/internal/domains/orders/domain"
	"github.com/shopora/shop-api/internal/domains/orders/ports"
)

// Service orchestrates order lifecycle use cases. Orders are created only by
// the checkout orchestrator; this service manages them afterwards.
type Service struct {
	repo   ports.Repository
	owners ports.OwnerDirectory
}

func NewService(repo ports.Repository, owners ports.OwnerDirectory) *Service {
	return &Service{repo: repo, owners: owners}
}

// GetOrderByID loads a single order.
func (s *Service) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders returns orders, optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, status *domain.Status) ([]*domain.Order, error) {
	return s.repo.List(ctx, status)
}

// ListUserOrders returns one user's orders.
func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateOrderStatus applies a forward-only lifecycle transition. Cancelling
// does not restock inventory; returns are a separately designed feature.
func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateStatus(status); err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, order)
}

// DeleteOrder removes the order and detaches it from its owner.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.owners != nil {
		return s.owners.DetachOrder(ctx, order.UserID, order.ID)
	}
	return nil
}

// Summary exposes the read-only revenue aggregate.
func (s *Service) Summary(ctx context.Context) (ports.Summary, error) {
	return s.repo.Summary(ctx)
}

var _ ports.Service = (*Service)(nil)
