package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/shopora/shop-api/internal/domains/cart/adapters/memory"
	cartdomain "github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogmemory "github.com/shopora/shop-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	checkoutpayment "github.com/shopora/shop-api/internal/domains/checkout/adapters/external/payment"
	checkoutmemory "github.com/shopora/shop-api/internal/domains/checkout/adapters/memory"
	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	"github.com/shopora/shop-api/internal/domains/checkout/ports"
	ordermemory "github.com/shopora/shop-api/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	usersdomain "github.com/shopora/shop-api/internal/domains/users/domain"
)

type checkoutFixture struct {
	service *Service
	catalog *catalogmemory.Repository
	carts   *cartmemory.Repository
	orders  *ordermemory.Repository
	users   *usermemory.Repository
	userID  int64
}

func newCheckoutFixture(t *testing.T, payments ports.PaymentAuthorizer, opts ...Option) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{
		catalog: catalogmemory.NewRepository(),
		carts:   cartmemory.NewRepository(),
		orders:  ordermemory.NewRepository(),
		users:   usermemory.NewRepository(),
	}
	user, err := usersdomain.NewUser(0, "Ada", "ada@example.com", "hunter2-long")
	require.NoError(t, err)
	saved, err := f.users.Save(context.Background(), user)
	require.NoError(t, err)
	f.userID = saved.ID
	f.service = NewService(f.catalog, f.carts, f.orders, f.users, payments, opts...)
	return f
}

func (f *checkoutFixture) seedProduct(t *testing.T, name string, price int64, sizes []string, stock map[string]int) int64 {
	t.Helper()
	product, err := catalogdomain.NewProduct(0, name, decimal.NewFromInt(price), sizes)
	require.NoError(t, err)
	for size, qty := range stock {
		require.NoError(t, product.SetStock(size, qty))
	}
	proj, err := f.catalog.Save(context.Background(), product)
	require.NoError(t, err)
	return proj.Entity.ID
}

func (f *checkoutFixture) fillCart(t *testing.T, lines ...cartdomain.Line) {
	t.Helper()
	cart := cartdomain.NewCart(f.userID)
	cart.Lines = lines
	require.NoError(t, f.carts.Save(context.Background(), cart))
}

func shippingInput() checkouttypes.ShippingInput {
	return checkouttypes.ShippingInput{
		Address:    "12 Main St",
		City:       "Springfield",
		Country:    "US",
		PostalCode: "12345",
		Phone:      "+1-555-0100",
	}
}

func TestQuote_PricesCart(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "m", Quantity: 2})

	quote, err := f.service.Quote(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, quote.Lines, 1)
	require.Equal(t, "M", quote.Lines[0].Size)
	require.True(t, quote.Total.Equal(decimal.NewFromInt(50)))

	// Quoting commits nothing.
	proj, err := f.catalog.GetByID(context.Background(), teeID)
	require.NoError(t, err)
	require.Equal(t, 5, proj.Entity.TotalStock())
}

func TestQuote_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	_, err := f.service.Quote(context.Background(), f.userID)
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_Cash(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	confirmation, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "Cash",
		Shipping: shippingInput(),
	})
	require.NoError(t, err)
	require.True(t, confirmation.Total.Equal(decimal.NewFromInt(50)))
	require.Equal(t, string(ordersdomain.StatusProcessing), confirmation.Status)
	require.Empty(t, confirmation.PaymentReference)

	// Stock committed, cart cleared, order attached to the buyer.
	proj, err := f.catalog.GetByID(context.Background(), teeID)
	require.NoError(t, err)
	require.Equal(t, 3, proj.Entity.TotalStock())

	cart, err := f.carts.GetByUser(context.Background(), f.userID)
	require.NoError(t, err)
	require.True(t, cart.IsEmpty())

	buyer, err := f.users.GetByID(context.Background(), f.userID)
	require.NoError(t, err)
	require.Equal(t, []int64{confirmation.OrderID}, buyer.Orders)
}

func TestPlaceOrder_CardCapturesReference(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	mugID := f.seedProduct(t, "Mug", 8, nil, map[string]int{"": 3})
	f.fillCart(t, cartdomain.Line{ProductID: mugID, Quantity: 1})

	confirmation, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "card",
		Shipping: shippingInput(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, confirmation.PaymentReference)
}

func TestPlaceOrder_CardDeclined(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewDecliningAuthorizer())
	mugID := f.seedProduct(t, "Mug", 8, nil, map[string]int{"": 3})
	f.fillCart(t, cartdomain.Line{ProductID: mugID, Quantity: 1})

	_, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "card",
		Shipping: shippingInput(),
	})
	require.ErrorIs(t, err, ErrAuthorizationFailed)

	// Nothing committed on decline.
	proj, err := f.catalog.GetByID(context.Background(), mugID)
	require.NoError(t, err)
	require.Equal(t, 3, proj.Entity.TotalStock())

	cart, err := f.carts.GetByUser(context.Background(), f.userID)
	require.NoError(t, err)
	require.False(t, cart.IsEmpty())
}

func TestPlaceOrder_InvalidCommand(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())

	_, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "visa",
		Shipping: shippingInput(),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ordersdomain.ErrInvalidPaymentMethod)

	incomplete := shippingInput()
	incomplete.PostalCode = ""
	_, err = f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "cash",
		Shipping: incomplete,
	})
	require.ErrorIs(t, err, ordersdomain.ErrIncompleteShippingAddress)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	_, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "cash",
		Shipping: shippingInput(),
	})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrder_InsufficientStockLeavesCartIntact(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 1})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	_, err := f.service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "cash",
		Shipping: shippingInput(),
	})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	cart, err := f.carts.GetByUser(context.Background(), f.userID)
	require.NoError(t, err)
	require.False(t, cart.IsEmpty())

	orders, err := f.orders.List(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestPlaceOrder_IdempotentReplay(t *testing.T) {
	store := checkoutmemory.NewIdempotencyStore()
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer(), WithIdempotencyStore(store))
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	input := checkouttypes.PlaceOrderInput{
		UserID:         f.userID,
		Method:         "cash",
		Shipping:       shippingInput(),
		IdempotencyKey: "retry-123",
	}
	first, err := f.service.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.False(t, first.Replayed)

	second, err := f.service.PlaceOrder(context.Background(), input)
	require.NoError(t, err)
	require.True(t, second.Replayed)
	require.Equal(t, first.OrderID, second.OrderID)
	require.True(t, first.Total.Equal(second.Total))

	// The replay must not have reserved stock a second time.
	proj, err := f.catalog.GetByID(context.Background(), teeID)
	require.NoError(t, err)
	require.Equal(t, 3, proj.Entity.TotalStock())
}

func TestPlaceOrder_IdempotencyConflict(t *testing.T) {
	store := checkoutmemory.NewIdempotencyStore()
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer(), WithIdempotencyStore(store))
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	input := checkouttypes.PlaceOrderInput{
		UserID:         f.userID,
		Method:         "cash",
		Shipping:       shippingInput(),
		IdempotencyKey: "retry-123",
	}
	_, err := f.service.PlaceOrder(context.Background(), input)
	require.NoError(t, err)

	altered := input
	altered.Method = "card"
	_, err = f.service.PlaceOrder(context.Background(), altered)
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
}

func TestFingerprintPlaceOrder_NormalizesCommand(t *testing.T) {
	base := checkouttypes.PlaceOrderInput{
		UserID:   7,
		Method:   "cash",
		Shipping: shippingInput(),
	}
	loud := base
	loud.Method = "  CASH "
	loud.IdempotencyKey = "the-key-is-excluded"

	hashBase, err := FingerprintPlaceOrder(base)
	require.NoError(t, err)
	hashLoud, err := FingerprintPlaceOrder(loud)
	require.NoError(t, err)
	require.Equal(t, hashBase, hashLoud)

	altered := base
	altered.Method = "card"
	hashAltered, err := FingerprintPlaceOrder(altered)
	require.NoError(t, err)
	require.NotEqual(t, hashBase, hashAltered)
}

// collidingOrderStore fails the first saves with a number collision, then
// delegates to the real repository.
type collidingOrderStore struct {
	inner     ports.OrderStore
	remaining int
	attempts  int
}

func (s *collidingOrderStore) Save(ctx context.Context, order *ordersdomain.Order) (*ordersdomain.Order, error) {
	s.attempts++
	if s.remaining > 0 {
		s.remaining--
		return nil, ordersports.ErrDuplicateNumber
	}
	return s.inner.Save(ctx, order)
}

func (s *collidingOrderStore) GetByID(ctx context.Context, id int64) (*ordersdomain.Order, error) {
	return s.inner.GetByID(ctx, id)
}

func TestPlaceOrder_RetriesOnDuplicateOrderNumber(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	store := &collidingOrderStore{inner: f.orders, remaining: 2}
	service := NewService(f.catalog, f.carts, store, f.users, checkoutpayment.NewStaticAuthorizer())

	confirmation, err := service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "cash",
		Shipping: shippingInput(),
	})
	require.NoError(t, err)
	require.Equal(t, 3, store.attempts)

	// Stock committed exactly once despite the retries.
	proj, err := f.catalog.GetByID(context.Background(), teeID)
	require.NoError(t, err)
	require.Equal(t, 3, proj.Entity.TotalStock())

	order, err := f.orders.GetByID(context.Background(), confirmation.OrderID)
	require.NoError(t, err)
	require.Equal(t, confirmation.OrderNumber, order.Number)
}

func TestPlaceOrder_GivesUpAfterRepeatedNumberCollisions(t *testing.T) {
	f := newCheckoutFixture(t, checkoutpayment.NewStaticAuthorizer())
	teeID := f.seedProduct(t, "Tee", 25, []string{"M"}, map[string]int{"M": 5})
	f.fillCart(t, cartdomain.Line{ProductID: teeID, Size: "M", Quantity: 2})

	store := &collidingOrderStore{inner: f.orders, remaining: 100}
	service := NewService(f.catalog, f.carts, store, f.users, checkoutpayment.NewStaticAuthorizer())

	_, err := service.PlaceOrder(context.Background(), checkouttypes.PlaceOrderInput{
		UserID:   f.userID,
		Method:   "cash",
		Shipping: shippingInput(),
	})
	require.ErrorIs(t, err, ordersports.ErrDuplicateNumber)
	require.Equal(t, 5, store.attempts)
}
