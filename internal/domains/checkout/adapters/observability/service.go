package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	checkouttypes "github.com/shopora/shop-api/internal/domains/checkout/application/types"
	"github.com/shopora/shop-api/internal/domains/checkout/ports"
)

const tracerName = "github.com/shopora/shop-api/internal/domains/checkout/adapters/observability/service"

// Service decorates the checkout service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Quote validates and prices the cart with instrumentation.
func (s *Service) Quote(ctx context.Context, userID int64) (*checkouttypes.Quote, error) {
	ctx, span := s.startSpan(ctx, "Service.Quote", attribute.Int64("user.id", userID))
	defer span.End()

	s.logInfo(ctx, "quoting cart", slog.Int64("user.id", userID))
	result, err := s.inner.Quote(ctx, userID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to quote cart", slog.Int64("user.id", userID))
	}
	span.SetAttributes(
		attribute.Int("checkout.quote.lines", len(result.Lines)),
		attribute.String("checkout.quote.total", result.Total.StringFixed(2)),
	)
	s.logInfo(ctx, "cart quoted", slog.Int64("user.id", userID), slog.String("total", result.Total.StringFixed(2)))
	return result, nil
}

// PlaceOrder converts the cart into an order with instrumentation.
func (s *Service) PlaceOrder(ctx context.Context, input checkouttypes.PlaceOrderInput) (*checkouttypes.OrderConfirmation, error) {
	ctx, span := s.startSpan(ctx, "Service.PlaceOrder",
		attribute.Int64("user.id", input.UserID),
		attribute.String("checkout.method", input.Method),
	)
	defer span.End()

	s.logInfo(ctx, "placing order", slog.Int64("user.id", input.UserID), slog.String("method", input.Method))
	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		s.metrics.recordFailed(ctx, input.Method)
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.Int64("user.id", input.UserID))
	}
	span.SetAttributes(
		attribute.Int64("order.id", result.OrderID),
		attribute.String("order.number", result.OrderNumber),
		attribute.Bool("checkout.replayed", result.Replayed),
	)
	if result.Replayed {
		s.metrics.recordReplayed(ctx)
		s.logInfo(ctx, "order replayed", slog.Int64("order.id", result.OrderID), slog.String("order.number", result.OrderNumber))
		return result, nil
	}
	s.metrics.recordPlaced(ctx, input.Method)
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.OrderID),
		slog.String("order.number", result.OrderNumber),
		slog.String("total", result.Total.StringFixed(2)),
	)
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	ordersPlaced   metric.Int64Counter
	ordersReplayed metric.Int64Counter
	ordersFailed   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("checkout.service.orders_placed", metric.WithDescription("Number of orders placed"))
	ordersReplayed, _ := m.Int64Counter("checkout.service.orders_replayed", metric.WithDescription("Number of idempotent checkout replays"))
	ordersFailed, _ := m.Int64Counter("checkout.service.orders_failed", metric.WithDescription("Number of failed checkout attempts"))
	return serviceMetrics{
		ordersPlaced:   ordersPlaced,
		ordersReplayed: ordersReplayed,
		ordersFailed:   ordersFailed,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context, method string) {
	addCounter(ctx, m.ordersPlaced, 1, attribute.String("checkout.method", method))
}

func (m serviceMetrics) recordReplayed(ctx context.Context) {
	addCounter(ctx, m.ordersReplayed, 1)
}

func (m serviceMetrics) recordFailed(ctx context.Context, method string) {
	addCounter(ctx, m.ordersFailed, 1, attribute.String("checkout.method", method))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
