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

	orderdomain "github.com/shopora/shop-api/internal/domains/orders/domain"
	orderports "github.com/shopora/shop-api/internal/domains/orders/ports"
)

const tracerName = "github.com/shopora/shop-api/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
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

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrderByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	return s.inner.GetOrderByID(ctx, id)
}

func (s *Service) ListOrders(ctx context.Context, status *orderdomain.Status) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()
	if status != nil {
		span.SetAttributes(attribute.String("order.status", string(*status)))
	}
	return s.inner.ListOrders(ctx, status)
}

func (s *Service) ListUserOrders(ctx context.Context, userID int64) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListUserOrders", trace.WithAttributes(attribute.Int64("user.id", userID)))
	defer span.End()
	return s.inner.ListUserOrders(ctx, userID)
}

func (s *Service) UpdateOrderStatus(ctx context.Context, id int64, status orderdomain.Status) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", string(status))))
	defer span.End()
	result, err := s.inner.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.Int64("order.id", id))
	}
	s.metrics.recordTransition(ctx)
	s.logInfo(ctx, "order status updated", slog.Int64("order.id", id), slog.String("status", string(status)))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()
	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) Summary(ctx context.Context) (orderports.Summary, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Summary")
	defer span.End()
	summary, err := s.inner.Summary(ctx)
	if err != nil {
		return orderports.Summary{}, s.handleError(ctx, span, err, "failed to aggregate orders")
	}
	span.SetAttributes(attribute.Int64("orders.count", summary.Orders))
	return summary, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	transitions metric.Int64Counter
	deleted     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of order status transitions"))
	deleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{transitions: transitions, deleted: deleted}
}

func (m serviceMetrics) recordTransition(ctx context.Context) {
	if m.transitions != nil {
		m.transitions.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ orderports.Service = (*Service)(nil)
