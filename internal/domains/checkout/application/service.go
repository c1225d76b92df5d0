package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	cartdomain "github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	"github.com/shopora/shop-api/internal/domains/checkout/ports"
	ordersdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
)

// DefaultCurrency is the currency charged for every checkout.
const DefaultCurrency = "USD"

// maxOrderNumberAttempts bounds regeneration when a freshly drawn order
// number collides with a persisted one.
const maxOrderNumberAttempts = 5

// Service is the checkout orchestrator. It owns no state of its own; it
// validates the cart against the live catalog, authorizes payment, commits
// stock and produces the order receipt in one pass.
type Service struct {
	products    ports.InventoryLedger
	carts       ports.CartStore
	orders      ports.OrderStore
	users       ports.UserDirectory
	payments    ports.PaymentAuthorizer
	idempotency ports.IdempotencyStore
	now         func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIdempotencyStore enables replay of retried checkout commands.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

// NewService wires the checkout orchestrator with its collaborators.
func NewService(
	products ports.InventoryLedger,
	carts ports.CartStore,
	orders ports.OrderStore,
	users ports.UserDirectory,
	payments ports.PaymentAuthorizer,
	opts ...Option,
) *Service {
	s := &Service{
		products: products,
		carts:    carts,
		orders:   orders,
		users:    users,
		payments: payments,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Quote validates and prices the cart without committing stock or payment.
func (s *Service) Quote(ctx context.Context, userID int64) (*checkouttypes.Quote, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	priced, err := s.priceCart(ctx, userID, cart.Lines)
	if err != nil {
		return nil, err
	}
	quote := &checkouttypes.Quote{UserID: userID, Total: priced.total}
	for _, line := range priced.lines {
		quote.Lines = append(quote.Lines, checkouttypes.QuoteLine{
			ProductID: line.ProductID,
			Name:      line.ProductName,
			Size:      line.Size,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return quote, nil
}

// PlaceOrder converts the cart into an order. The sequence is fixed: validate
// the command, replay idempotent retries, price the cart against the live
// catalog, authorize card payment, commit stock all-or-nothing, persist the
// receipt, then clear the cart and attach the order to the buyer.
func (s *Service) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	method := ordersdomain.PaymentMethod(strings.ToLower(strings.TrimSpace(input.Method)))
	shipping := ordersdomain.ShippingAddress{
		Address:    input.Shipping.Address,
		City:       input.Shipping.City,
		Country:    input.Shipping.Country,
		PostalCode: input.Shipping.PostalCode,
		Phone:      input.Shipping.Phone,
	}
	if method != ordersdomain.PaymentCash && method != ordersdomain.PaymentCard {
		return nil, mapError(ordersdomain.ErrInvalidPaymentMethod)
	}
	if err := shipping.Validate(); err != nil {
		return nil, mapError(err)
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	var requestHash string
	if key != "" && s.idempotency != nil {
		hash, err := FingerprintPlaceOrder(input)
		if err != nil {
			return nil, err
		}
		requestHash = hash
		record, err := s.idempotency.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if record != nil {
			if record.RequestHash != requestHash {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.replayConfirmation(ctx, record.OrderID)
		}
	}

	cart, err := s.carts.GetByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	priced, err := s.priceCart(ctx, input.UserID, cart.Lines)
	if err != nil {
		return nil, err
	}

	var paymentRef string
	if method == ordersdomain.PaymentCard {
		if s.payments == nil {
			return nil, errors.New("payment authorizer not configured")
		}
		auth, err := s.payments.Authorize(ctx, ports.AuthorizationRequest{
			UserID:   input.UserID,
			Amount:   priced.total,
			Currency: DefaultCurrency,
			Metadata: map[string]string{"lines": fmt.Sprintf("%d", len(priced.lines))},
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAuthorizationFailed, err)
		}
		if auth == nil || !auth.Approved {
			return nil, ErrAuthorizationFailed
		}
		paymentRef = auth.Reference
	}

	if err := s.products.ReserveStock(ctx, priced.reservations); err != nil {
		return nil, err
	}

	// Order numbers are short and random, so a save can lose to an existing
	// number. Stock is already committed at this point; regenerating and
	// retrying keeps the reservation from leaking into a failed placement.
	var saved *ordersdomain.Order
	for attempt := 1; ; attempt++ {
		order, err := ordersdomain.NewOrder(input.UserID, priced.lines, method, shipping, s.now().UTC())
		if err != nil {
			return nil, mapError(err)
		}
		saved, err = s.orders.Save(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, ordersports.ErrDuplicateNumber) && attempt < maxOrderNumberAttempts {
			continue
		}
		return nil, err
	}

	if key != "" && s.idempotency != nil {
		record := ports.IdempotencyRecord{Key: key, RequestHash: requestHash, OrderID: saved.ID}
		if stored, err := s.idempotency.Save(ctx, record); err != nil {
			if errors.Is(err, ports.ErrIdempotencyConflict) && stored != nil && stored.RequestHash == requestHash {
				// A concurrent retry with the same key won the race; serve its order.
				return s.replayConfirmation(ctx, stored.OrderID)
			}
			return nil, err
		}
	}

	if err := s.carts.Clear(ctx, input.UserID); err != nil {
		return nil, err
	}
	if s.users != nil {
		if err := s.users.AttachOrder(ctx, saved.UserID, saved.ID); err != nil {
			return nil, err
		}
	}

	return &checkouttypes.OrderConfirmation{
		OrderID:          saved.ID,
		OrderNumber:      saved.Number,
		Total:            saved.Total,
		Status:           string(saved.Status),
		PlacedAt:         saved.PlacedAt,
		PaymentReference: paymentRef,
	}, nil
}

type pricedCart struct {
	lines        []ordersdomain.Line
	reservations []catalogdomain.Reservation
	total        decimal.Decimal
}

// priceCart resolves every cart line against the catalog: canonical size,
// current availability, unit price captured now. Validation covers the whole
// cart before anything is committed.
func (s *Service) priceCart(ctx context.Context, userID int64, lines []cartdomain.Line) (pricedCart, error) {
	priced := pricedCart{total: decimal.Zero}
	cache := map[int64]*catalogdomain.Product{}
	for _, line := range lines {
		product, ok := cache[line.ProductID]
		if !ok {
			result, err := s.products.GetByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, catalogports.ErrNotFound) {
					return pricedCart{}, fmt.Errorf("%w: product %d", catalogports.ErrNotFound, line.ProductID)
				}
				return pricedCart{}, err
			}
			product = result.Entity
			cache[line.ProductID] = product
		}
		size, err := product.ResolveSize(line.Size)
		if err != nil {
			return pricedCart{}, mapError(err)
		}
		available, err := product.AvailableStock(size)
		if err != nil {
			return pricedCart{}, mapError(err)
		}
		if available < line.Quantity {
			return pricedCart{}, catalogdomain.InsufficientStockError(available, size)
		}
		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		priced.lines = append(priced.lines, ordersdomain.Line{
			ProductID:   product.ID,
			ProductName: product.Name,
			Size:        size,
			Quantity:    line.Quantity,
			UnitPrice:   product.Price,
		})
		priced.reservations = append(priced.reservations, catalogdomain.Reservation{
			ProductID: product.ID,
			Size:      size,
			Quantity:  line.Quantity,
		})
		priced.total = priced.total.Add(subtotal)
	}
	return priced, nil
}

func (s *Service) replayConfirmation(ctx context.Context, orderID int64) (*checkouttypes.OrderConfirmation, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &checkouttypes.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Total:       order.Total,
		Status:      string(order.Status),
		PlacedAt:    order.PlacedAt,
		Replayed:    true,
	}, nil
}

var _ ports.Service = (*Service)(nil)
