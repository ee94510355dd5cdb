// Package metrics owns the Prometheus collectors of the launchdash server.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "launchdash"

// View names used as label values.
const (
	ViewPie     = "pie"
	ViewScatter = "scatter"
)

// Metrics groups the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	viewComputations *prometheus.CounterVec
	viewDuration     *prometheus.HistogramVec
	chartRenders     *prometheus.CounterVec
	datasetRecords   prometheus.Gauge
	wsSessions       prometheus.Gauge
}

// New registers all collectors, plus the Go runtime and process collectors,
// on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		viewComputations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_computations_total",
			Help:      "Number of dashboard view computations, by view.",
		}, []string{"view"}),
		viewDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_duration_seconds",
			Help:      "Time spent computing a dashboard view.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1},
		}, []string{"view"}),
		chartRenders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_renders_total",
			Help:      "Number of rendered chart images, by chart and format.",
		}, []string{"chart", "format"}),
		datasetRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Number of launch records loaded at startup.",
		}),
		wsSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_sessions",
			Help:      "Currently connected WebSocket sessions.",
		}),
	}
}

// ObserveView records one computation of view that took d.
func (m *Metrics) ObserveView(view string, d time.Duration) {
	if m == nil {
		return
	}
	m.viewComputations.WithLabelValues(view).Inc()
	m.viewDuration.WithLabelValues(view).Observe(d.Seconds())
}

// ChartRendered counts one rendered chart image.
func (m *Metrics) ChartRendered(chart, format string) {
	if m == nil {
		return
	}
	m.chartRenders.WithLabelValues(chart, format).Inc()
}

// SetDatasetRecords publishes the size of the loaded table.
func (m *Metrics) SetDatasetRecords(n int) {
	if m == nil {
		return
	}
	m.datasetRecords.Set(float64(n))
}

// SessionOpened increments the live session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.wsSessions.Inc()
}

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.wsSessions.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
