package application

import (
	"context"

	"github.com/shopspring/decimal"

	carttypes "github.com/shopora/shop-api/internal/domains/cart/application/types"
	"github.com/shopora/shop-api/internal/domains/cart/domain"
	"github.com/shopora/shop-api/internal/domains/cart/ports"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
)

// Service applies cart mutations under inventory constraints. Every batch is
// validated line by line against a staged copy of the cart and persisted only
// when the whole batch passes.
type Service struct {
	carts    ports.Repository
	products ports.ProductSource
}

func NewService(carts ports.Repository, products ports.ProductSource) *Service {
	return &Service{carts: carts, products: products}
}

// Get loads the user's cart populated with product details.
func (s *Service) Get(ctx context.Context, userID int64) (*carttypes.CartView, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart, map[int64]*catalogdomain.Product{})
}

// Add merges each requested item into the cart, validating requested plus
// already-carted quantity against current availability. Any failing item
// aborts the batch before persistence.
func (s *Service) Add(ctx context.Context, input carttypes.AddInput) (*carttypes.CartView, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	cart, err := s.carts.GetByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	staged := cart.Clone()
	resolved := map[int64]*catalogdomain.Product{}

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}
		product, err := s.resolve(ctx, resolved, item.ProductID)
		if err != nil {
			return nil, err
		}
		size, err := product.ResolveSize(item.Size)
		if err != nil {
			return nil, mapError(err)
		}
		available, err := product.AvailableStock(size)
		if err != nil {
			return nil, mapError(err)
		}
		current := 0
		if i := staged.FindLine(product.ID, size); i >= 0 {
			current = staged.Lines[i].Quantity
		}
		if available < current+item.Quantity {
			return nil, mapError(catalogdomain.InsufficientStockError(available, size))
		}
		if err := staged.AddQuantity(product.ID, size, item.Quantity); err != nil {
			return nil, mapError(err)
		}
	}

	if err := s.carts.Save(ctx, staged); err != nil {
		return nil, err
	}
	return s.view(ctx, staged, resolved)
}

// Update applies each change to an existing line: optional resize, optional
// new quantity. A resize landing on an occupied (product, size) slot merges
// into that line instead of duplicating it.
func (s *Service) Update(ctx context.Context, input carttypes.UpdateInput) (*carttypes.CartView, error) {
	if len(input.Changes) == 0 {
		return nil, mapError(domain.ErrInvalidQuantity)
	}
	cart, err := s.carts.GetByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	staged := cart.Clone()
	resolved := map[int64]*catalogdomain.Product{}

	for _, change := range input.Changes {
		product, err := s.resolve(ctx, resolved, change.ProductID)
		if err != nil {
			return nil, err
		}
		lookupSize := ""
		if product.RequiresSize() {
			lookupSize = change.CurrentSize
		}
		index := staged.FindLine(product.ID, lookupSize)
		if index < 0 {
			return nil, domain.ErrLineNotFound
		}

		targetSize := change.CurrentSize
		if change.NewSize != nil && *change.NewSize != "" {
			targetSize = *change.NewSize
		}
		canonical, err := product.ResolveSize(targetSize)
		if err != nil {
			return nil, mapError(err)
		}
		available, err := product.AvailableStock(canonical)
		if err != nil {
			return nil, mapError(err)
		}

		final := staged.Lines[index].Quantity
		if change.Quantity != nil {
			final = *change.Quantity
		}
		if final <= 0 {
			return nil, mapError(domain.ErrInvalidQuantity)
		}

		desired := final
		if dup := staged.FindLine(product.ID, canonical); dup >= 0 && dup != index {
			desired += staged.Lines[dup].Quantity
		}
		if desired > available {
			return nil, mapError(catalogdomain.InsufficientStockError(available, canonical))
		}
		if err := staged.Reslot(index, canonical, final); err != nil {
			return nil, mapError(err)
		}
	}

	if err := s.carts.Save(ctx, staged); err != nil {
		return nil, err
	}
	return s.view(ctx, staged, resolved)
}

// Remove deletes the line(s) matching (product, size). Absence is detected by
// comparing lengths, never assumed.
func (s *Service) Remove(ctx context.Context, input carttypes.RemoveInput) (*carttypes.CartView, error) {
	cart, err := s.carts.GetByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	resolved := map[int64]*catalogdomain.Product{}
	product, err := s.resolve(ctx, resolved, input.ProductID)
	if err != nil {
		return nil, err
	}
	size := ""
	if product.RequiresSize() {
		size = input.Size
	}

	staged := cart.Clone()
	if staged.RemoveLines(product.ID, size) == 0 {
		return nil, domain.ErrLineNotFound
	}
	if err := s.carts.Save(ctx, staged); err != nil {
		return nil, err
	}
	return s.view(ctx, staged, resolved)
}

func (s *Service) resolve(ctx context.Context, cache map[int64]*catalogdomain.Product, productID int64) (*catalogdomain.Product, error) {
	if product, ok := cache[productID]; ok {
		return product, nil
	}
	proj, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	cache[productID] = proj.Entity
	return proj.Entity, nil
}

func (s *Service) view(ctx context.Context, cart *domain.Cart, cache map[int64]*catalogdomain.Product) (*carttypes.CartView, error) {
	view := &carttypes.CartView{UserID: cart.UserID, Total: decimal.Zero}
	for _, line := range cart.Lines {
		product, err := s.resolve(ctx, cache, line.ProductID)
		if err != nil {
			return nil, err
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, carttypes.LineView{
			ProductID: line.ProductID,
			Name:      product.Name,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}

var _ ports.Service = (*Service)(nil)
