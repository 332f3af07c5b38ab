package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"resumeforge/internal/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ObservabilityConfig is the flattened slice of app config the manager
// needs at construction time
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusConfig
}

// Metrics holds every instrument the application records into. All
// fields may be nil when observability is disabled; recording methods
// tolerate that.
type Metrics struct {
	AIProcessingTime metric.Float64Histogram
	AIRequestCount   metric.Int64Counter
	AIErrorCount     metric.Int64Counter
	AITokenUsage     metric.Int64Histogram

	ResumesParsed        metric.Int64Counter
	JobsAnalyzed         metric.Int64Counter
	MatchesComputed      metric.Int64Counter
	SuggestionsGenerated metric.Int64Counter
	ATSChecks            metric.Int64Counter

	CertReloadCount metric.Int64Counter
	CertExpiryTime  metric.Float64Gauge

	RateLimitHits metric.Int64Counter
}

// ObservabilityManager owns the tracer and meter providers and the
// instruments built on them
type ObservabilityManager struct {
	config        ObservabilityConfig
	appConfig     *config.Config
	tracers       *trace.TracerProvider
	meters        *sdkmetric.MeterProvider
	metrics       *Metrics
	closers       []func(context.Context) error
	prometheusMux *http.ServeMux
}

// NewObservabilityManager wires tracing and metrics. A disabled config
// yields an inert manager whose accessors all degrade to no-ops.
func NewObservabilityManager(obsConfig ObservabilityConfig, appConfig *config.Config) (*ObservabilityManager, error) {
	om := &ObservabilityManager{config: obsConfig, appConfig: appConfig}
	if !obsConfig.Enabled {
		return om, nil
	}

	res, err := om.newResource()
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := om.startTracing(res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := om.startMetrics(res); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return om, nil
}

func (om *ObservabilityManager) newResource() (*resource.Resource, error) {
	instance := "resumeforge-1"
	if om.appConfig != nil && om.appConfig.Observability.ServiceInstance != "" {
		instance = om.appConfig.Observability.ServiceInstance
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(om.config.ServiceName),
			semconv.ServiceVersion(om.config.ServiceVersion),
			attribute.String("service.instance.id", instance),
		),
	)
}

func (om *ObservabilityManager) otlpEnabled() bool {
	return om.appConfig != nil && om.appConfig.Observability.OTLP.Enabled
}

func (om *ObservabilityManager) exportInterval() time.Duration {
	if om.appConfig != nil && om.appConfig.Observability.Metrics.CollectionInterval > 0 {
		return om.appConfig.Observability.Metrics.CollectionInterval
	}
	return 15 * time.Second
}

// startTracing picks a span exporter (console for development, OTLP for
// production, discard otherwise) and installs the provider globally
func (om *ObservabilityManager) startTracing(res *resource.Resource) error {
	var exporter trace.SpanExporter

	switch {
	case om.config.ConsoleOutput:
		var opts []stdouttrace.Option
		if om.config.PrettyPrint {
			opts = append(opts, stdouttrace.WithPrettyPrint())
		}
		consoleExporter, err := stdouttrace.New(opts...)
		if err != nil {
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		exporter = consoleExporter
	case om.otlpEnabled():
		otlpExporter, err := otlptracehttp.New(context.Background(), om.otlpTraceOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
		}
		exporter = otlpExporter
	default:
		exporter = discardSpans{}
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(om.config.SampleRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	om.tracers = tp
	om.closers = append(om.closers, tp.Shutdown)
	return nil
}

func (om *ObservabilityManager) otlpTraceOptions() []otlptracehttp.Option {
	otlp := om.appConfig.Observability.OTLP
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(otlp.Endpoint)}
	if otlp.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(otlp.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(otlp.Headers))
	}
	return opts
}

func (om *ObservabilityManager) otlpMetricOptions() []otlpmetrichttp.Option {
	otlp := om.appConfig.Observability.OTLP
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpointURL(otlp.Endpoint)}
	if otlp.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(otlp.Headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(otlp.Headers))
	}
	return opts
}

// startMetrics assembles the configured readers, installs the meter
// provider, and registers the application instruments
func (om *ObservabilityManager) startMetrics(res *resource.Resource) error {
	var readers []sdkmetric.Reader

	if om.config.ConsoleOutput {
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console metric exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(om.exportInterval())))
	}

	if om.otlpEnabled() {
		exporter, err := otlpmetrichttp.New(context.Background(), om.otlpMetricOptions()...)
		if err != nil {
			return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(om.exportInterval())))
	}

	if om.config.Prometheus.Enabled {
		reader, mux, err := newPrometheusReader(om.config.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		readers = append(readers, reader)
		om.prometheusMux = mux
		servePrometheus(mux, om.config.Prometheus.Port)
	}

	if len(readers) == 0 {
		readers = append(readers, sdkmetric.NewManualReader())
	}

	opts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		opts = append(opts, sdkmetric.WithReader(r))
	}

	mp := sdkmetric.NewMeterProvider(opts...)
	otel.SetMeterProvider(mp)
	om.meters = mp
	om.closers = append(om.closers, mp.Shutdown)

	return om.registerInstruments()
}

// registerInstruments creates every instrument the application records.
// The first registration failure aborts startup.
func (om *ObservabilityManager) registerInstruments() error {
	meter := om.meters.Meter(om.config.ServiceName)
	om.metrics = &Metrics{}
	var firstErr error

	counter := func(dst *metric.Int64Counter, name, desc string) {
		if firstErr != nil {
			return
		}
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			firstErr = fmt.Errorf("failed to create %s metric: %w", name, err)
			return
		}
		*dst = c
	}

	counter(&om.metrics.AIRequestCount, "resumeforge_ai_requests_total",
		"Total number of AI requests")
	counter(&om.metrics.AIErrorCount, "resumeforge_ai_errors_total",
		"Total number of AI request errors")
	counter(&om.metrics.ResumesParsed, "resumeforge_resumes_parsed_total",
		"Total number of resumes parsed")
	counter(&om.metrics.JobsAnalyzed, "resumeforge_jobs_analyzed_total",
		"Total number of job descriptions analyzed")
	counter(&om.metrics.MatchesComputed, "resumeforge_matches_computed_total",
		"Total number of resume-to-job matches computed")
	counter(&om.metrics.SuggestionsGenerated, "resumeforge_suggestions_generated_total",
		"Total number of suggestion runs")
	counter(&om.metrics.ATSChecks, "resumeforge_ats_checks_total",
		"Total number of ATS compliance checks")
	counter(&om.metrics.CertReloadCount, "resumeforge_cert_reloads_total",
		"Total number of certificate reloads")
	counter(&om.metrics.RateLimitHits, "resumeforge_rate_limit_hits_total",
		"Total number of rate limit hits")
	if firstErr != nil {
		return firstErr
	}

	var err error
	om.metrics.AIProcessingTime, err = meter.Float64Histogram(
		"resumeforge_ai_processing_duration_seconds",
		metric.WithDescription("Time spent processing AI requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI processing time metric: %w", err)
	}

	om.metrics.AITokenUsage, err = meter.Int64Histogram(
		"resumeforge_ai_token_usage_total",
		metric.WithDescription("Token usage for AI requests (input, output, total)"),
		metric.WithUnit("tokens"),
	)
	if err != nil {
		return fmt.Errorf("failed to create AI token usage metric: %w", err)
	}

	om.metrics.CertExpiryTime, err = meter.Float64Gauge(
		"resumeforge_cert_expiry_seconds",
		metric.WithDescription("Seconds until certificate expiry"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate expiry time metric: %w", err)
	}

	return nil
}

// GetMetrics never returns nil; an uninitialized manager hands back an
// empty Metrics whose recorders all no-op
func (om *ObservabilityManager) GetMetrics() *Metrics {
	if om.metrics == nil {
		return &Metrics{}
	}
	return om.metrics
}

// HTTPMiddleware wraps handlers with otelhttp instrumentation, or passes
// them through untouched when observability is off
func (om *ObservabilityManager) HTTPMiddleware() func(http.Handler) http.Handler {
	if !om.config.Enabled {
		return func(h http.Handler) http.Handler { return h }
	}
	return otelhttp.NewMiddleware(
		om.config.ServiceName,
		otelhttp.WithTracerProvider(om.tracers),
		otelhttp.WithMeterProvider(om.meters),
	)
}

// Tracer returns a named tracer, or a noop one when disabled
func (om *ObservabilityManager) Tracer(name string) oteltrace.Tracer {
	if !om.config.Enabled {
		return noop.NewTracerProvider().Tracer(name)
	}
	return otel.Tracer(name)
}

// Shutdown flushes and stops the providers
func (om *ObservabilityManager) Shutdown(ctx context.Context) error {
	for _, closeFn := range om.closers {
		if err := closeFn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// AIOperationResult is what an instrumented AI call reports back
type AIOperationResult struct {
	Error      error
	TokenUsage *TokenUsage
}

// TokenUsage mirrors the provider's token accounting
type TokenUsage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

func (om *ObservabilityManager) aiCustomMetrics() *config.AIOperationsMetricsConfig {
	if om == nil || om.appConfig == nil {
		return nil
	}
	return &om.appConfig.Observability.CustomMetrics.AIOperations
}

// TrackAIOperationWithTokens runs fn inside a span and records duration,
// request/error counts, and token usage. With metrics uninitialized it
// degrades to a plain call.
func (m *Metrics) TrackAIOperationWithTokens(ctx context.Context, operation string, fn func(context.Context) *AIOperationResult, om *ObservabilityManager) error {
	if m.AIProcessingTime == nil {
		if result := fn(ctx); result != nil {
			return result.Error
		}
		return nil
	}

	ctx, span := otel.Tracer("resumeforge.ai").Start(ctx, "ai."+operation)
	defer span.End()

	start := time.Now()
	result := fn(ctx)
	elapsed := time.Since(start).Seconds()

	var err error
	if result != nil {
		err = result.Error
	}

	aiCfg := om.aiCustomMetrics()
	if aiCfg == nil || aiCfg.Enabled {
		attrs := []attribute.KeyValue{
			attribute.String("operation", operation),
			attribute.Bool("success", err == nil),
		}

		if aiCfg == nil || aiCfg.TrackDuration {
			m.AIProcessingTime.Record(ctx, elapsed, metric.WithAttributes(attrs...))
		}
		m.AIRequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		if err != nil {
			m.AIErrorCount.Add(ctx, 1, metric.WithAttributes(attrs...))
		}

		m.recordTokens(ctx, result, attrs, aiCfg, span)
		span.SetAttributes(attrs...)
	}

	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.Bool("error", true))
	}

	return err
}

// recordTokens emits the token histogram per token type and annotates the
// span. Spans always get the token counts even with the metric disabled.
func (m *Metrics) recordTokens(ctx context.Context, result *AIOperationResult, attrs []attribute.KeyValue, aiCfg *config.AIOperationsMetricsConfig, span oteltrace.Span) {
	if result == nil || result.TokenUsage == nil || m.AITokenUsage == nil {
		return
	}
	usage := result.TokenUsage

	if aiCfg == nil || aiCfg.TrackTokenUsage {
		for tokenType, value := range map[string]int64{
			"input":  usage.InputTokens,
			"output": usage.OutputTokens,
			"total":  usage.TotalTokens,
		} {
			withType := append(append([]attribute.KeyValue{}, attrs...),
				attribute.String("token_type", tokenType))
			m.AITokenUsage.Record(ctx, value, metric.WithAttributes(withType...))
		}
	}

	span.SetAttributes(
		attribute.Int64("ai.tokens.input", usage.InputTokens),
		attribute.Int64("ai.tokens.output", usage.OutputTokens),
		attribute.Int64("ai.tokens.total", usage.TotalTokens),
	)
}

// RecordBusinessMetric bumps the named operation counter with a success
// attribute. Unknown names are ignored.
func (m *Metrics) RecordBusinessMetric(ctx context.Context, metricType string, success bool, om *ObservabilityManager, attributes ...attribute.KeyValue) {
	if om != nil && om.appConfig != nil && !om.appConfig.Observability.CustomMetrics.BusinessMetrics.Enabled {
		return
	}

	attrs := append([]attribute.KeyValue{attribute.Bool("success", success)}, attributes...)

	if metricType == "rate_limit_hit" {
		if om != nil && om.appConfig != nil && !om.appConfig.Observability.CustomMetrics.Infrastructure.TrackRateLimits {
			return
		}
		if m.RateLimitHits != nil {
			m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
		return
	}

	counters := map[string]metric.Int64Counter{
		"resume_parsed":         m.ResumesParsed,
		"job_analyzed":          m.JobsAnalyzed,
		"match_computed":        m.MatchesComputed,
		"suggestions_generated": m.SuggestionsGenerated,
		"ats_checked":           m.ATSChecks,
	}
	if counter := counters[metricType]; counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// discardSpans satisfies trace.SpanExporter when nothing is configured
type discardSpans struct{}

func (discardSpans) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error { return nil }
func (discardSpans) Shutdown(ctx context.Context) error                                { return nil }
