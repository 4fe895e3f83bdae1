package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "attendance"

// Stage labels
const (
	StageNormalize = "normalize"
	StageHours     = "hours"
)

// Outcome labels
const (
	OutcomeOK      = "ok"
	OutcomeSkipped = "skipped"
)

// Collector owns a private registry so several instances can coexist in tests.
type Collector struct {
	registry      *prometheus.Registry
	sheets        *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	batchDuration *prometheus.HistogramVec
	workedHours   prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		sheets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_processed_total",
			Help:      "Uploaded files or input sheets processed, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Recovered failures surfaced to the user, by kind.",
		}, []string{"stage", "kind"}),
		batchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one batch run.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		workedHours: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "employee_worked_hours",
			Help:      "Total worked hours per employee sheet.",
			Buckets:   prometheus.LinearBuckets(0, 40, 8),
		}),
	}

	c.registry.MustRegister(
		c.sheets,
		c.warnings,
		c.batchDuration,
		c.workedHours,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObserveSheet(stage, outcome string) {
	c.sheets.WithLabelValues(stage, outcome).Inc()
}

func (c *Collector) ObserveWarning(stage, kind string) {
	c.warnings.WithLabelValues(stage, kind).Inc()
}

func (c *Collector) ObserveBatch(stage string, d time.Duration) {
	c.batchDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (c *Collector) ObserveWorkedHours(hours float64) {
	c.workedHours.Observe(hours)
}
