// Package transport assembles the *http.Client used by the API bindings.
package transport

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"
)

// Metrics holds client-side request metrics, partitioned by API.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "social_client",
			Name:      "requests_total",
			Help:      "API requests by API, status code and method.",
		}, []string{"api", "code", "method"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "social_client",
			Name:      "request_duration_seconds",
			Help:      "API request latency by API and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Instrument wraps rt so that requests are counted and timed under api.
func (m *Metrics) Instrument(api string, rt http.RoundTripper) http.RoundTripper {
	labels := prometheus.Labels{"api": api}
	return promhttp.InstrumentRoundTripperCounter(
		m.requests.MustCurryWith(labels),
		promhttp.InstrumentRoundTripperDuration(m.duration.MustCurryWith(labels), rt),
	)
}

// Config selects the layers Wrap installs.
type Config struct {
	// API names the binding in metrics and spans.
	API string

	// AccessToken is sent as a bearer token. Empty disables the auth layer.
	AccessToken string

	Metrics *Metrics

	// Tracing wraps requests in client spans named "<API> <METHOD>".
	Tracing bool
	// TracerProvider receives the spans. Nil uses the global provider.
	// Setting it implies Tracing.
	TracerProvider trace.TracerProvider
}

// Wrap returns a copy of base whose transport adds auth, tracing and metrics.
// base itself is left untouched.
func Wrap(base *http.Client, cfg Config) *http.Client {
	if base == nil {
		base = &http.Client{}
	}
	rt := base.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if cfg.Metrics != nil {
		rt = cfg.Metrics.Instrument(cfg.API, rt)
	}
	if cfg.Tracing || cfg.TracerProvider != nil {
		opts := []otelhttp.Option{
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return cfg.API + " " + r.Method
			}),
		}
		if cfg.TracerProvider != nil {
			opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
		}
		rt = otelhttp.NewTransport(rt, opts...)
	}
	if cfg.AccessToken != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken, TokenType: "Bearer"}),
			Base:   rt,
		}
	}
	return &http.Client{
		Transport:     rt,
		CheckRedirect: base.CheckRedirect,
		Jar:           base.Jar,
		Timeout:       base.Timeout,
	}
}
