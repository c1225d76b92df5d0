package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/shopora/shop-api/internal/domains/cart/adapters/memory"
	carttypes "github.com/shopora/shop-api/internal/domains/cart/application/types"
	"github.com/shopora/shop-api/internal/domains/cart/domain"
	catalogmemory "github.com/shopora/shop-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
)

func seedProduct(t *testing.T, catalog *catalogmemory.Repository, name string, price int64, sizes []string, stock map[string]int) int64 {
	t.Helper()
	product, err := catalogdomain.NewProduct(0, name, decimal.NewFromInt(price), sizes)
	require.NoError(t, err)
	for size, qty := range stock {
		require.NoError(t, product.SetStock(size, qty))
	}
	proj, err := catalog.Save(context.Background(), product)
	require.NoError(t, err)
	return proj.Entity.ID
}

func newCartFixture(t *testing.T) (*Service, *catalogmemory.Repository) {
	t.Helper()
	catalog := catalogmemory.NewRepository()
	return NewService(cartmemory.NewRepository(), catalog), catalog
}

func TestAdd_MergesDuplicateLines(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"S", "M"}, map[string]int{"M": 10})

	view, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items: []carttypes.AddItem{
			{ProductID: teeID, Quantity: 2, Size: "M"},
			{ProductID: teeID, Quantity: 1, Size: "m"},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, 3, view.Lines[0].Quantity)
	require.Equal(t, "M", view.Lines[0].Size)
	require.True(t, view.Total.Equal(decimal.NewFromInt(75)))
}

func TestAdd_ValidatesAgainstCartedQuantity(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"M"}, map[string]int{"M": 3})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: teeID, Quantity: 2, Size: "M"}},
	})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: teeID, Quantity: 2, Size: "M"}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	// The failed batch must not have leaked into the stored cart.
	view, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, 2, view.Lines[0].Quantity)
}

func TestAdd_BatchAbortsAtomically(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"M"}, map[string]int{"M": 10})
	mugID := seedProduct(t, catalog, "Mug", 8, nil, map[string]int{"": 1})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items: []carttypes.AddItem{
			{ProductID: teeID, Quantity: 1, Size: "M"},
			{ProductID: mugID, Quantity: 5},
		},
	})
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)

	view, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, view.Lines)
}

func TestAdd_SizeErrors(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"S", "M"}, map[string]int{"M": 5})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: teeID, Quantity: 1}},
	})
	require.ErrorIs(t, err, catalogdomain.ErrSizeRequired)

	_, err = svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: teeID, Quantity: 1, Size: "XXL"}},
	})
	require.ErrorIs(t, err, catalogdomain.ErrUnknownSize)

	_, err = svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: 999, Quantity: 1}},
	})
	require.ErrorIs(t, err, catalogports.ErrNotFound)
}

func TestUpdate_ReslotMergesIntoOccupiedSlot(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"S", "M"}, map[string]int{"S": 10, "M": 10})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items: []carttypes.AddItem{
			{ProductID: teeID, Quantity: 2, Size: "S"},
			{ProductID: teeID, Quantity: 3, Size: "M"},
		},
	})
	require.NoError(t, err)

	newSize := "M"
	view, err := svc.Update(context.Background(), carttypes.UpdateInput{
		UserID: 1,
		Changes: []carttypes.UpdateChange{
			{ProductID: teeID, CurrentSize: "S", NewSize: &newSize},
		},
	})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, "M", view.Lines[0].Size)
	require.Equal(t, 5, view.Lines[0].Quantity)
}

func TestUpdate_QuantityOnly(t *testing.T) {
	svc, catalog := newCartFixture(t)
	mugID := seedProduct(t, catalog, "Mug", 8, nil, map[string]int{"": 10})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: mugID, Quantity: 1}},
	})
	require.NoError(t, err)

	qty := 4
	view, err := svc.Update(context.Background(), carttypes.UpdateInput{
		UserID:  1,
		Changes: []carttypes.UpdateChange{{ProductID: mugID, Quantity: &qty}},
	})
	require.NoError(t, err)
	require.Equal(t, 4, view.Lines[0].Quantity)
	require.True(t, view.Total.Equal(decimal.NewFromInt(32)))
}

func TestUpdate_MissingLine(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"M"}, map[string]int{"M": 5})

	qty := 1
	_, err := svc.Update(context.Background(), carttypes.UpdateInput{
		UserID:  1,
		Changes: []carttypes.UpdateChange{{ProductID: teeID, CurrentSize: "M", Quantity: &qty}},
	})
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}

func TestUpdate_RejectsZeroQuantity(t *testing.T) {
	svc, catalog := newCartFixture(t)
	mugID := seedProduct(t, catalog, "Mug", 8, nil, map[string]int{"": 10})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items:  []carttypes.AddItem{{ProductID: mugID, Quantity: 1}},
	})
	require.NoError(t, err)

	qty := 0
	_, err = svc.Update(context.Background(), carttypes.UpdateInput{
		UserID:  1,
		Changes: []carttypes.UpdateChange{{ProductID: mugID, Quantity: &qty}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestRemove_MatchesProductAndSize(t *testing.T) {
	svc, catalog := newCartFixture(t)
	teeID := seedProduct(t, catalog, "Tee", 25, []string{"S", "M"}, map[string]int{"S": 5, "M": 5})

	_, err := svc.Add(context.Background(), carttypes.AddInput{
		UserID: 1,
		Items: []carttypes.AddItem{
			{ProductID: teeID, Quantity: 1, Size: "S"},
			{ProductID: teeID, Quantity: 1, Size: "M"},
		},
	})
	require.NoError(t, err)

	view, err := svc.Remove(context.Background(), carttypes.RemoveInput{UserID: 1, ProductID: teeID, Size: "s"})
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	require.Equal(t, "M", view.Lines[0].Size)

	_, err = svc.Remove(context.Background(), carttypes.RemoveInput{UserID: 1, ProductID: teeID, Size: "S"})
	require.ErrorIs(t, err, domain.ErrLineNotFound)
}
