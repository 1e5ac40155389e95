package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/sundus-book-orders/internal/domains/payments/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/payments/ports"
)

const tracerName = "github.com/Apurer/sundus-book-orders/internal/domains/payments/adapters/observability/service"

// Service decorates the payments service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateIntent(ctx context.Context, input ports.IntentInput) (*ports.GatewayOrder, error) {
	ctx, span := s.tracer.Start(ctx, "PaymentService.CreateIntent", trace.WithAttributes(attribute.Float64("payment.amount", input.Amount)))
	defer span.End()

	result, err := s.inner.CreateIntent(ctx, input)
	if err != nil {
		s.metrics.recordIntent(ctx, "error")
		return nil, s.handleError(ctx, span, err, "failed to create gateway order", slog.Float64("payment.amount", input.Amount))
	}
	span.SetAttributes(attribute.String("gateway.order_id", result.ID), attribute.Int64("gateway.amount", result.Amount))
	s.metrics.recordIntent(ctx, "created")
	s.logInfo(ctx, "gateway order created", slog.String("gateway.order_id", result.ID), slog.Int64("gateway.amount", result.Amount))
	return result, nil
}

func (s *Service) VerifyPayment(ctx context.Context, confirmation domain.Confirmation) error {
	ctx, span := s.tracer.Start(ctx, "PaymentService.VerifyPayment", trace.WithAttributes(
		attribute.String("gateway.order_id", confirmation.OrderID),
		attribute.String("payment.id", confirmation.PaymentID),
	))
	defer span.End()

	err := s.inner.VerifyPayment(ctx, confirmation)
	switch {
	case err == nil:
		s.metrics.recordVerification(ctx, "verified")
		s.logInfo(ctx, "payment verified", slog.String("payment.id", confirmation.PaymentID))
		return nil
	case errors.Is(err, domain.ErrInvalidSignature):
		s.metrics.recordVerification(ctx, "rejected")
		span.SetStatus(codes.Error, err.Error())
		s.logWarn(ctx, "payment signature rejected", slog.String("payment.id", confirmation.PaymentID))
		return err
	default:
		s.metrics.recordVerification(ctx, "invalid")
		return s.handleError(ctx, span, err, "failed to verify payment")
	}
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	intents       metric.Int64Counter
	verifications metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	intents, _ := m.Int64Counter("payments.service.intents", metric.WithDescription("Gateway orders requested"))
	verifications, _ := m.Int64Counter("payments.service.verifications", metric.WithDescription("Payment signature checks"))
	return serviceMetrics{intents: intents, verifications: verifications}
}

func (m serviceMetrics) recordIntent(ctx context.Context, outcome string) {
	if m.intents != nil {
		m.intents.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func (m serviceMetrics) recordVerification(ctx context.Context, outcome string) {
	if m.verifications != nil {
		m.verifications.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

var _ ports.Service = (*Service)(nil)
