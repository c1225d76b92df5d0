//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	pacttest "github.com/shopora/shop-api/test/pact"

	"github.com/shopspring/decimal"

	cartmemory "github.com/shopora/shop-api/internal/domains/cart/adapters/memory"
	cartapp "github.com/shopora/shop-api/internal/domains/cart/application"
	catalogmemory "github.com/shopora/shop-api/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/shopora/shop-api/internal/domains/catalog/application"
	catalogdomain "github.com/shopora/shop-api/internal/domains/catalog/domain"
	checkoutpayment "github.com/shopora/shop-api/internal/domains/checkout/adapters/external/payment"
	checkoutmemory "github.com/shopora/shop-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/shopora/shop-api/internal/domains/checkout/adapters/observability"
	checkoutworkflows "github.com/shopora/shop-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/shopora/shop-api/internal/domains/checkout/application"
	ordermemory "github.com/shopora/shop-api/internal/domains/orders/adapters/memory"
	orderapp "github.com/shopora/shop-api/internal/domains/orders/application"
	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	userapp "github.com/shopora/shop-api/internal/domains/users/application"
	server "github.com/shopora/shop-api/internal/transport/http"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"
)

func TestShopProviderPact(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	verifier := pactprovider.NewVerifier()
	stateHandlers := models.StateHandlers{
		pacttest.StateCatalogBaseline: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
		pacttest.StateProductExists: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			if setup {
				app.seedProduct(t, pacttest.ExistingProductID)
			}
			return nil, nil
		},
		pacttest.StateProductMissing: func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			app.resetCatalog(t)
			return nil, nil
		},
	}

	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers:   stateHandlers,
		BeforeEach: func() error {
			app.resetCatalog(t)
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	catalog *catalogmemory.Repository
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	catalogRepo := catalogmemory.NewRepository()
	cartRepo := cartmemory.NewRepository()
	orderRepo := ordermemory.NewRepository()
	userRepo := usermemory.NewRepository()

	catalogService := catalogapp.NewService(catalogRepo)
	cartService := cartapp.NewService(cartRepo, catalogRepo)
	orderService := orderapp.NewService(orderRepo, userRepo)
	userService := userapp.NewService(userRepo, usermemory.NewSessionStore())

	checkoutService := checkoutobs.New(checkoutapp.NewService(
		catalogRepo,
		cartRepo,
		orderRepo,
		userRepo,
		checkoutpayment.NewStaticAuthorizer(),
		checkoutapp.WithIdempotencyStore(checkoutmemory.NewIdempotencyStore()),
	))
	workflows := checkoutworkflows.NewInlineCheckoutWorkflows(checkoutService)

	handlers := server.ApiHandleFunctions{
		ProductAPI:  server.NewProductAPI(catalogService),
		CartAPI:     server.NewCartAPI(cartService),
		CheckoutAPI: server.NewCheckoutAPI(checkoutService, workflows),
		OrderAPI:    server.NewOrderAPI(orderService),
		UserAPI:     server.NewUserAPI(userService),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router = server.NewRouterWithGinEngine(router, handlers)

	testServer := httptest.NewServer(router)
	t.Cleanup(testServer.Close)

	return &contractProviderApp{
		catalog: catalogRepo,
		server:  testServer,
	}
}

func (a *contractProviderApp) resetCatalog(t testing.TB) {
	t.Helper()
	products, err := a.catalog.List(context.Background())
	require.NoError(t, err)
	for _, projection := range products {
		_ = a.catalog.Delete(context.Background(), projection.Entity.ID)
	}
}

func (a *contractProviderApp) seedProduct(t testing.TB, id int64) {
	t.Helper()
	product, err := catalogdomain.NewProduct(id, "Pact Runner", decimal.RequireFromString("119.99"), []string{"40", "41"})
	require.NoError(t, err)
	require.NoError(t, product.SetStock("40", 5))
	_, err = a.catalog.Save(context.Background(), product)
	require.NoError(t, err)
}
