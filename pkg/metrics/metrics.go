// Package metrics exposes completion, analysis and session counters in the
// Prometheus text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/helmcode/seo-ai/pkg/model"
)

const namespace = "seo_ai"

// Collector implements llm.Recorder and analyzer.Recorder on a private
// registry so several collectors can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	completions        *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	analyses           *prometheus.CounterVec
	fixes              *prometheus.CounterVec
	sessions           prometheus.Gauge
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion requests by model and outcome.",
		}, []string{"model", "outcome"}),
		completionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion request latency.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}, []string{"model"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Module analyses by module and result.",
		}, []string{"module", "result"}),
		fixes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixes_total",
			Help:      "Fix generations by result.",
		}, []string{"result"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Dashboard sessions currently held in memory.",
		}),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.completions,
		c.completionDuration,
		c.analyses,
		c.fixes,
		c.sessions,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveCompletion(model, outcome string, elapsed time.Duration) {
	c.completions.WithLabelValues(model, outcome).Inc()
	c.completionDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveAnalysis(module model.Module, failed bool) {
	c.analyses.WithLabelValues(string(module), result(failed)).Inc()
}

func (c *Collector) ObserveFix(failed bool) {
	c.fixes.WithLabelValues(result(failed)).Inc()
}

// SetSessions records the number of live dashboard sessions.
func (c *Collector) SetSessions(n int) {
	c.sessions.Set(float64(n))
}

// Handler serves the registry. Gather errors are logged and the remaining
// metrics are still served.
func (c *Collector) Handler(logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorLog:      errorLog{logger},
		ErrorHandling: promhttp.ContinueOnError,
	})
}

func result(failed bool) string {
	if failed {
		return "fallback"
	}
	return "ok"
}

// errorLog implements promhttp.Logger.
type errorLog struct {
	logger *zap.Logger
}

func (l errorLog) Println(v ...interface{}) {
	l.logger.Sugar().Warn(v...)
}
