package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	paymentclient "github.com/shopora/shop-api/internal/clients/http/payment"
	cartmemory "github.com/shopora/shop-api/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/shopora/shop-api/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/shopora/shop-api/internal/domains/cart/application"
	cartports "github.com/shopora/shop-api/internal/domains/cart/ports"
	catalogmemory "github.com/shopora/shop-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/shopora/shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/shopora/shop-api/internal/domains/catalog/application"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
	checkoutpayment "github.com/shopora/shop-api/internal/domains/checkout/adapters/external/payment"
	checkoutmemory "github.com/shopora/shop-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/shopora/shop-api/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/shopora/shop-api/internal/domains/checkout/adapters/persistence/postgres"
	checkoutworkflows "github.com/shopora/shop-api/internal/domains/checkout/adapters/workflows"
	checkoutapp "github.com/shopora/shop-api/internal/domains/checkout/application"
	checkoutports "github.com/shopora/shop-api/internal/domains/checkout/ports"
	ordermemory "github.com/shopora/shop-api/internal/domains/orders/adapters/memory"
	orderobs "github.com/shopora/shop-api/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/shopora/shop-api/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/shopora/shop-api/internal/domains/orders/application"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	userobs "github.com/shopora/shop-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/shopora/shop-api/internal/domains/users/adapters/persistence/postgres"
	userapp "github.com/shopora/shop-api/internal/domains/users/application"
	usersports "github.com/shopora/shop-api/internal/domains/users/ports"
	platformobservability "github.com/shopora/shop-api/internal/platform/observability"
	platformpostgres "github.com/shopora/shop-api/internal/platform/postgres"
	server "github.com/shopora/shop-api/internal/transport/http"
)

// Run boots the shop HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "shop-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	repos := buildRepositories(db, cfg, logger)

	catalogService := catalogapp.NewService(repos.products)
	cartService := cartapp.NewService(repos.carts, repos.products)
	orderService := orderobs.New(
		orderapp.NewService(repos.orders, repos.users),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	userService := userobs.New(
		userapp.NewService(repos.users, repos.sessions),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)

	coreCheckout := checkoutapp.NewService(
		repos.products,
		repos.carts,
		repos.orders,
		repos.users,
		buildPaymentAuthorizer(cfg, logger),
		checkoutapp.WithIdempotencyStore(repos.idempotency),
	)
	checkoutService := checkoutobs.New(
		coreCheckout,
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)
	var orchestrator checkoutports.WorkflowOrchestrator = checkoutworkflows.NewInlineCheckoutWorkflows(checkoutService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline checkout", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orchestrator = checkoutworkflows.NewTemporalCheckoutWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := server.ApiHandleFunctions{
		ProductAPI:  server.NewProductAPI(catalogService),
		CartAPI:     server.NewCartAPI(cartService),
		CheckoutAPI: server.NewCheckoutAPI(checkoutService, orchestrator),
		OrderAPI:    server.NewOrderAPI(orderService),
		UserAPI:     server.NewUserAPI(userService),
	}

	router := server.NewRouter(handlers)
	router.Use(otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("shop API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("shop API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type repositories struct {
	products    catalogports.Repository
	carts       cartports.Repository
	orders      ordersports.Repository
	users       usersports.Repository
	sessions    usersports.SessionStore
	idempotency checkoutports.IdempotencyStore
}

// buildRepositories wires every context against the shared postgres connection,
// falling back to in-memory adapters when no database is available.
func buildRepositories(db *gorm.DB, cfg Config, logger *slog.Logger) repositories {
	if db == nil {
		return repositories{
			products:    catalogmemory.NewRepository(),
			carts:       cartmemory.NewRepository(),
			orders:      ordermemory.NewRepository(),
			users:       usermemory.NewRepository(),
			sessions:    usermemory.NewSessionStore(),
			idempotency: checkoutmemory.NewIdempotencyStore(),
		}
	}
	logger.Info("repositories configured with postgres")
	return repositories{
		products:    catalogpostgres.NewRepository(db),
		carts:       cartpostgres.NewRepository(db),
		orders:      orderpostgres.NewRepository(db),
		users:       userpostgres.NewRepository(db),
		sessions:    userpostgres.NewSessionStore(db, cfg.SessionTTL),
		idempotency: checkoutpostgres.NewIdempotencyStore(db),
	}
}

// buildPaymentAuthorizer returns the partner gateway client when configured
// and a local approve-everything authorizer otherwise.
func buildPaymentAuthorizer(cfg Config, logger *slog.Logger) checkoutports.PaymentAuthorizer {
	if cfg.PaymentGatewayURL == "" {
		logger.Warn("PAYMENT_GATEWAY_URL not set, card payments are authorized locally")
		return checkoutpayment.NewStaticAuthorizer()
	}
	client, err := paymentclient.NewClient(cfg.PaymentGatewayURL, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		logger.Warn("invalid payment gateway URL, card payments are authorized locally", slog.String("error", err.Error()))
		return checkoutpayment.NewStaticAuthorizer()
	}
	logger.Info("payment gateway configured", slog.String("url", cfg.PaymentGatewayURL))
	return checkoutpayment.NewGatewayAuthorizer(client)
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
