package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	rulesApplied     *prometheus.CounterVec
	ruleDuration     *prometheus.HistogramVec
	pipelineFailures *prometheus.CounterVec
	cacheRequests    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registry.
// A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m := &Metrics{
		registry: registry,
		rulesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textkit_rules_applied_total",
				Help: "Total number of successful rule applications",
			},
			[]string{"rule"},
		),
		ruleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textkit_rule_duration_seconds",
				Help:    "Duration of rule applications",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
			},
			[]string{"rule"},
		),
		pipelineFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textkit_pipeline_failures_total",
				Help: "Total number of failed pipelines by error kind",
			},
			[]string{"kind"},
		),
		cacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textkit_cache_requests_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.rulesApplied,
		m.ruleDuration,
		m.pipelineFailures,
		m.cacheRequests,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks records rule and pipeline outcomes.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRuleApplied: func(_ context.Context, e *domain.RuleEvent) {
			m.rulesApplied.WithLabelValues(e.Rule).Inc()
			m.ruleDuration.WithLabelValues(e.Rule).Observe(e.Elapsed.Seconds())
		},
		OnRuleFailed: func(_ context.Context, e *domain.RuleEvent) {
			// Unknown names are caller input; keep them out of label values.
			if domain.Kind(e.Err) == "unknown_rule" {
				return
			}
			m.ruleDuration.WithLabelValues(e.Rule).Observe(e.Elapsed.Seconds())
		},
		OnPipelineDone: func(_ context.Context, e *domain.PipelineEvent) {
			if e.Err != nil {
				m.pipelineFailures.WithLabelValues(domain.Kind(e.Err)).Inc()
			}
		},
	}
}

// RecordFailure counts a failure that never reached the orchestrator, such
// as a rejected rule string.
func (m *Metrics) RecordFailure(kind string) {
	m.pipelineFailures.WithLabelValues(kind).Inc()
}

// InstrumentCache counts hits and misses of cache.
func (m *Metrics) InstrumentCache(cache ports.ResultCache) ports.ResultCache {
	return &instrumentedCache{next: cache, requests: m.cacheRequests}
}

type instrumentedCache struct {
	next     ports.ResultCache
	requests *prometheus.CounterVec
}

func (c *instrumentedCache) Get(ctx context.Context, key string) (string, error) {
	v, err := c.next.Get(ctx, key)
	switch {
	case err == nil:
		c.requests.WithLabelValues("hit").Inc()
	case errors.Is(err, domain.ErrCacheMiss):
		c.requests.WithLabelValues("miss").Inc()
	}
	return v, err
}

func (c *instrumentedCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.next.Set(ctx, key, value, ttl)
}

func (c *instrumentedCache) Delete(ctx context.Context, key string) error {
	return c.next.Delete(ctx, key)
}
