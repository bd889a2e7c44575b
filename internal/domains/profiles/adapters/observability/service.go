package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	profiletypes "github.com/Apurer/pooch-profile-api/internal/domains/profiles/application/types"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/domain"
	"github.com/Apurer/pooch-profile-api/internal/domains/profiles/ports"
)

const tracerName = "github.com/Apurer/pooch-profile-api/internal/domains/profiles/adapters/observability/service"

// Service decorates a profiles application port with tracing, logging, and metrics.
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

// SubmitProfile creates a profile record with instrumentation. Personal fields are never logged.
func (s *Service) SubmitProfile(ctx context.Context, input profiletypes.SubmitProfileInput) (*profiletypes.ProfileProjection, error) {
	withUpload := input.Image.HasUpload()
	withReference := !withUpload && input.Image.ReferenceID() != ""
	ctx, span := s.startSpan(ctx, "Service.SubmitProfile",
		attribute.Bool("profile.image.upload", withUpload),
		attribute.Bool("profile.image.reference", withReference),
	)
	defer span.End()

	attrs := []slog.Attr{slog.Bool("image.upload", withUpload), slog.Bool("image.reference", withReference)}
	if withUpload {
		attrs = append(attrs, slog.Int64("image.size", input.Image.Upload.Size()))
	}
	s.logInfo(ctx, "submitting profile", attrs...)
	result, err := s.inner.SubmitProfile(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to submit profile", kindAttr(err))
	}
	if result != nil && result.Profile != nil {
		if result.Metadata.ImageStaged {
			s.metrics.recordStaged(ctx)
		}
		s.metrics.recordSubmitted(ctx, result.Metadata.ImageReference != "")
		span.SetAttributes(attribute.String("profile.id", result.Profile.ID))
		s.logInfo(ctx, "profile submitted",
			slog.String("profile.id", result.Profile.ID),
			slog.String("profile.type", result.Profile.Type),
			slog.Bool("image.staged", result.Metadata.ImageStaged),
		)
	}
	return result, nil
}

// StageImage uploads and finalizes a standalone image.
func (s *Service) StageImage(ctx context.Context, input profiletypes.StageImageInput) (*profiletypes.FileReference, error) {
	ctx, span := s.startSpan(ctx, "Service.StageImage",
		attribute.String("asset.filename", input.Upload.Filename()),
		attribute.Int64("asset.size", input.Upload.Size()),
	)
	defer span.End()

	s.logInfo(ctx, "staging image", slog.String("filename", input.Upload.Filename()), slog.Int64("size", input.Upload.Size()))
	result, err := s.inner.StageImage(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, err)
		return nil, s.handleError(ctx, span, err, "failed to stage image", kindAttr(err))
	}
	if result != nil {
		s.metrics.recordStaged(ctx)
		span.SetAttributes(attribute.String("file.id", result.ID))
		s.logInfo(ctx, "image staged", slog.String("file.id", result.ID))
	}
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
	var detail *domain.Error
	if errors.As(err, &detail) {
		if detail.StatusCode != 0 {
			attrs = append(attrs, slog.Int("error.status", detail.StatusCode))
		}
		if detail.Body != "" {
			attrs = append(attrs, slog.String("error.body", detail.Body))
		}
	}
	level := slog.LevelError
	if domain.KindOf(err) == domain.ErrValidation {
		level = slog.LevelWarn
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
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

func kindAttr(err error) slog.Attr {
	return slog.String("error.kind", domain.KindName(err))
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	profilesSubmitted metric.Int64Counter
	profilesRejected  metric.Int64Counter
	imagesStaged      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	profilesSubmitted, _ := m.Int64Counter("profiles.service.submitted", metric.WithDescription("Number of profiles created"))
	profilesRejected, _ := m.Int64Counter("profiles.service.rejected", metric.WithDescription("Number of failed submissions by error kind"))
	imagesStaged, _ := m.Int64Counter("profiles.service.images_staged", metric.WithDescription("Number of images uploaded and finalized"))
	return serviceMetrics{
		profilesSubmitted: profilesSubmitted,
		profilesRejected:  profilesRejected,
		imagesStaged:      imagesStaged,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, withImage bool) {
	addCounter(ctx, m.profilesSubmitted, 1, attribute.Bool("profile.image", withImage))
}

func (m serviceMetrics) recordRejected(ctx context.Context, err error) {
	addCounter(ctx, m.profilesRejected, 1, attribute.String("error.kind", domain.KindName(err)))
}

func (m serviceMetrics) recordStaged(ctx context.Context) {
	addCounter(ctx, m.imagesStaged, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
