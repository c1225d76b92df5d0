package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/shopora/shop-api/internal/domains/catalog/domain"
	"github.com/shopora/shop-api/internal/domains/catalog/ports"
)

func savedProduct(t *testing.T, repo *Repository, sizes []string, stock map[string]int) int64 {
	t.Helper()
	product, err := domain.NewProduct(0, "Tee", decimal.NewFromInt(25), sizes)
	require.NoError(t, err)
	for size, qty := range stock {
		require.NoError(t, product.SetStock(size, qty))
	}
	proj, err := repo.Save(context.Background(), product)
	require.NoError(t, err)
	return proj.Entity.ID
}

func TestSave_AssignsSequentialIDs(t *testing.T) {
	repo := NewRepository()
	first := savedProduct(t, repo, nil, map[string]int{"": 1})
	second := savedProduct(t, repo, nil, map[string]int{"": 1})
	require.Equal(t, first+1, second)
}

func TestReserveStock_AllOrNothing(t *testing.T) {
	repo := NewRepository()
	id := savedProduct(t, repo, []string{"S", "M"}, map[string]int{"S": 5, "M": 1})

	err := repo.ReserveStock(context.Background(), []domain.Reservation{
		{ProductID: id, Size: "S", Quantity: 2},
		{ProductID: id, Size: "M", Quantity: 3},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The failing batch must not have touched the first bucket.
	proj, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 5, proj.Entity.Stock.BySize["S"])
	require.Equal(t, 1, proj.Entity.Stock.BySize["M"])
}

func TestReserveStock_UnknownProduct(t *testing.T) {
	repo := NewRepository()
	err := repo.ReserveStock(context.Background(), []domain.Reservation{
		{ProductID: 42, Size: "", Quantity: 1},
	})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestReserveStock_ConcurrentNeverOversells(t *testing.T) {
	repo := NewRepository()
	id := savedProduct(t, repo, nil, map[string]int{"": 10})

	const workers = 20
	var wg sync.WaitGroup
	succeeded := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.ReserveStock(context.Background(), []domain.Reservation{
				{ProductID: id, Quantity: 1},
			})
			if err == nil {
				succeeded <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(succeeded)

	wins := 0
	for range succeeded {
		wins++
	}
	require.Equal(t, 10, wins)

	proj, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, 0, proj.Entity.TotalStock())
}
