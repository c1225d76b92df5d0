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

	userdomain "github.com/shopora/shop-api/internal/domains/users/domain"
	userports "github.com/shopora/shop-api/internal/domains/users/ports"
)

const tracerName = "github.com/shopora/shop-api/internal/domains/users/adapters/observability/service"

// Service decorates the user service with tracing, logging, and metrics.
type Service struct {
	inner   userports.Service
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

// New wraps the core user service.
func New(inner userports.Service, opts ...Option) userports.Service {
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

func (s *Service) Register(ctx context.Context, user *userdomain.User) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Register", trace.WithAttributes(attribute.String("user.email", user.Email)))
	defer span.End()
	s.logInfo(ctx, "registering user", slog.String("email", user.Email))
	result, err := s.inner.Register(ctx, user)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register user", slog.String("email", user.Email))
	}
	s.metrics.recordRegistered(ctx)
	s.logInfo(ctx, "user registered", slog.Int64("user.id", result.ID))
	return result, nil
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.GetUserByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	return s.inner.GetUserByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, name, phone string) (*userdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.UpdateProfile", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	result, err := s.inner.UpdateProfile(ctx, id, name, phone)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update profile", slog.Int64("user.id", id))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()
	if err := s.inner.Delete(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete user", slog.Int64("user.id", id))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Login", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	token, err := s.inner.Login(ctx, email, password)
	if err != nil {
		return "", s.handleError(ctx, span, err, "login failed", slog.String("email", email))
	}
	s.metrics.recordLogin(ctx)
	return token, nil
}

func (s *Service) Logout(ctx context.Context, email string) {
	ctx, span := s.tracer.Start(ctx, "UserService.Logout", trace.WithAttributes(attribute.String("user.email", email)))
	defer span.End()
	s.inner.Logout(ctx, email)
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
	usersRegistered metric.Int64Counter
	usersUpdated    metric.Int64Counter
	usersDeleted    metric.Int64Counter
	logins          metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	registered, _ := m.Int64Counter("users.service.registered", metric.WithDescription("Number of accounts registered"))
	updated, _ := m.Int64Counter("users.service.updated", metric.WithDescription("Number of profile updates"))
	deleted, _ := m.Int64Counter("users.service.deleted", metric.WithDescription("Number of accounts deleted"))
	logins, _ := m.Int64Counter("users.service.logins", metric.WithDescription("Number of successful logins"))
	return serviceMetrics{usersRegistered: registered, usersUpdated: updated, usersDeleted: deleted, logins: logins}
}

func (m serviceMetrics) recordRegistered(ctx context.Context) {
	if m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.usersUpdated != nil {
		m.usersUpdated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.usersDeleted != nil {
		m.usersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordLogin(ctx context.Context) {
	if m.logins != nil {
		m.logins.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ userports.Service = (*Service)(nil)
