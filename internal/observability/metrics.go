package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"vibromon/internal/analysis"
)

const namespace = "vibromon"

// Metrics holds the Prometheus collectors for source reloads, alerts and the API.
type Metrics struct {
	SourceLoads        *prometheus.CounterVec // labels: result={ok,error}
	SourceLoadDuration prometheus.Histogram
	LastLoadTimestamp  prometheus.Gauge

	Equipment      *prometheus.GaugeVec // labels: zone
	EquipmentTrend *prometheus.GaugeVec // labels: trend

	Alerts *prometheus.CounterVec // labels: result={sent,failed}

	HTTPRequests *prometheus.CounterVec   // labels: route, code
	HTTPDuration *prometheus.HistogramVec // labels: route
}

// NewMetrics creates all collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_loads_total",
			Help:      "Measurement source reads by result.",
		}, []string{"result"}),
		SourceLoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_load_duration_seconds",
			Help:      "Time spent reading and classifying the measurement source.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		LastLoadTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_last_load_timestamp_seconds",
			Help:      "Unix time of the last successful source load.",
		}),
		Equipment: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equipment_units",
			Help:      "Units per vibration zone in the last loaded source.",
		}, []string{"zone"}),
		EquipmentTrend: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "equipment_trend_units",
			Help:      "Units per trend direction in the last loaded source.",
		}, []string{"trend"}),
		Alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "Alert dispatch attempts by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "API requests by route pattern and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "API request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.SourceLoads,
		m.SourceLoadDuration,
		m.LastLoadTimestamp,
		m.Equipment,
		m.EquipmentTrend,
		m.Alerts,
		m.HTTPRequests,
		m.HTTPDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics on a fresh registry.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewMetrics(reg), reg
}

// ObserveSummary publishes per-zone and per-trend unit counts.
func (m *Metrics) ObserveSummary(s analysis.Summary) {
	if m == nil {
		return
	}
	for zone, n := range s.ByZone {
		m.Equipment.WithLabelValues(string(zone)).Set(float64(n))
	}
	for trend, n := range s.ByTrend {
		m.EquipmentTrend.WithLabelValues(string(trend)).Set(float64(n))
	}
}
