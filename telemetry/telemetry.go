package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Upstream outcomes recorded by ObserveUpstream.
const (
	OutcomeSuccess       = "success"
	OutcomeUpstreamError = "upstream_error"
	OutcomeFailure       = "failure"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traccarproxy_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "traccarproxy_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "traccarproxy_upstream_requests_total",
			Help: "Requests made to the Traccar positions API, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, upstreamRequestsTotal)
}

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init sets up the tracing exporter based on cfg.Tracing.
// Supported exporters: "none" (default), "stdout", "otlp".
func Init(ctx context.Context, cfg *config.Config) (ShutdownFunc, error) {
	if cfg == nil || cfg.Tracing == nil {
		return noopShutdown, nil
	}
	exporter := strings.ToLower(cfg.Tracing.Exporter)
	if exporter == "" || exporter == constants.TracingExporterNone {
		return noopShutdown, nil
	}

	serviceName := constants.DefaultServiceName
	if cfg.Tracing.ServiceName != "" {
		serviceName = cfg.Tracing.ServiceName
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noopShutdown, fmt.Errorf("telemetry resource: %w", err)
	}

	var exp sdktrace.SpanExporter
	switch exporter {
	case constants.TracingExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case constants.TracingExporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.Tracing.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Tracing.Endpoint))
		}
		exp, err = otlptracehttp.New(ctx, opts...)
	default:
		return noopShutdown, fmt.Errorf("unsupported tracing exporter: %s", cfg.Tracing.Exporter)
	}
	if err != nil {
		return noopShutdown, fmt.Errorf("telemetry exporter %s: %w", exporter, err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// WrapHandler applies tracing, Prometheus metrics, and otelhttp middleware.
func WrapHandler(name string, next http.Handler) http.Handler {
	h := otelhttp.NewHandler(next, name)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{w, http.StatusOK}
		h.ServeHTTP(rw, r)
		httpRequestsTotal.WithLabelValues(name, r.Method, strconv.Itoa(rw.status)).Inc()
		httpRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
	})
}

// NewTransport instruments outbound requests. A nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base)
}

// ObserveUpstream counts one upstream call by outcome.
func ObserveUpstream(outcome string) {
	upstreamRequestsTotal.WithLabelValues(outcome).Inc()
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
