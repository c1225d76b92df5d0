package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	paymentclient "github.com/shopora/shop-api/internal/clients/http/payment"
	cartmemory "github.com/shopora/shop-api/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/shopora/shop-api/internal/domains/cart/adapters/persistence/postgres"
	cartports "github.com/shopora/shop-api/internal/domains/cart/ports"
	catalogmemory "github.com/shopora/shop-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/shopora/shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/shopora/shop-api/internal/domains/catalog/ports"
	checkoutpayment "github.com/shopora/shop-api/internal/domains/checkout/adapters/external/payment"
	checkoutmemory "github.com/shopora/shop-api/internal/domains/checkout/adapters/memory"
	checkoutobs "github.com/shopora/shop-api/internal/domains/checkout/adapters/observability"
	checkoutpostgres "github.com/shopora/shop-api/internal/domains/checkout/adapters/persistence/postgres"
	checkoutapp "github.com/shopora/shop-api/internal/domains/checkout/application"
	checkoutports "github.com/shopora/shop-api/internal/domains/checkout/ports"
	ordermemory "github.com/shopora/shop-api/internal/domains/orders/adapters/memory"
	orderpostgres "github.com/shopora/shop-api/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/shopora/shop-api/internal/domains/orders/ports"
	usermemory "github.com/shopora/shop-api/internal/domains/users/adapters/memory"
	userpostgres "github.com/shopora/shop-api/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/shopora/shop-api/internal/domains/users/ports"
	platformobservability "github.com/shopora/shop-api/internal/platform/observability"
	platformpostgres "github.com/shopora/shop-api/internal/platform/postgres"
	checkoutactivities "github.com/shopora/shop-api/internal/platform/temporal/activities/checkout"
	checkoutworkflow "github.com/shopora/shop-api/internal/platform/temporal/workflows/checkout"
)

func main() {
	ctx := context.Background()
	const serviceName = "shop-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
	repos := buildRepositories(db, logger)

	coreCheckout := checkoutapp.NewService(
		repos.products,
		repos.carts,
		repos.orders,
		repos.users,
		buildPaymentAuthorizer(logger),
		checkoutapp.WithIdempotencyStore(repos.idempotency),
	)
	checkoutService := checkoutobs.New(
		coreCheckout,
		checkoutobs.WithLogger(logger),
		checkoutobs.WithTracer(instruments.Tracer("internal.checkout.application")),
		checkoutobs.WithMeter(instruments.Meter("internal.checkout.application")),
	)
	activities := checkoutactivities.NewActivities(checkoutService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, checkoutworkflow.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(checkoutworkflow.OrderPlacementWorkflow, workflow.RegisterOptions{Name: checkoutworkflow.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: checkoutactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", checkoutworkflow.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

type repositories struct {
	products    catalogports.Repository
	carts       cartports.Repository
	orders      ordersports.Repository
	users       usersports.Repository
	idempotency checkoutports.IdempotencyStore
}

func buildRepositories(db *gorm.DB, logger *slog.Logger) repositories {
	if db == nil {
		logger.Warn("worker running against in-memory repositories")
		return repositories{
			products:    catalogmemory.NewRepository(),
			carts:       cartmemory.NewRepository(),
			orders:      ordermemory.NewRepository(),
			users:       usermemory.NewRepository(),
			idempotency: checkoutmemory.NewIdempotencyStore(),
		}
	}
	logger.Info("worker repositories configured with postgres")
	return repositories{
		products:    catalogpostgres.NewRepository(db),
		carts:       cartpostgres.NewRepository(db),
		orders:      orderpostgres.NewRepository(db),
		users:       userpostgres.NewRepository(db),
		idempotency: checkoutpostgres.NewIdempotencyStore(db),
	}
}

func buildPaymentAuthorizer(logger *slog.Logger) checkoutports.PaymentAuthorizer {
	gatewayURL := strings.TrimSpace(os.Getenv("PAYMENT_GATEWAY_URL"))
	if gatewayURL == "" {
		logger.Warn("PAYMENT_GATEWAY_URL not set, card payments are authorized locally")
		return checkoutpayment.NewStaticAuthorizer()
	}
	client, err := paymentclient.NewClient(gatewayURL, &http.Client{Timeout: 10 * time.Second})
	if err != nil {
		logger.Warn("invalid payment gateway URL, card payments are authorized locally", slog.String("error", err.Error()))
		return checkoutpayment.NewStaticAuthorizer()
	}
	return checkoutpayment.NewGatewayAuthorizer(client)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
