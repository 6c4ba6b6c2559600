// Package metrics holds the Prometheus instruments of the document loader.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rdfxml"

// Metrics holds Prometheus metrics for document loads.
type Metrics struct {
	documentsTotal *prometheus.CounterVec // By status (loaded/failed)
	triplesTotal   prometheus.Counter
	storedTotal    prometheus.Counter
	parseErrors    *prometheus.CounterVec // By error kind
	loadDuration   prometheus.Histogram
	inFlight       prometheus.Gauge
}

// NewMetrics creates the load metrics and registers them with reg.
// A nil registerer disables metrics.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	m := &Metrics{
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "documents_total",
			Help:      "Total number of documents processed",
		}, []string{"status"}),

		triplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "triples_parsed_total",
			Help:      "Total number of triples produced by the parser",
		}),

		storedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "triples_stored_total",
			Help:      "Total number of triples newly written to the store",
		}),

		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "parse_errors_total",
			Help:      "Total number of fatal parse errors by kind",
		}, []string{"kind"}),

		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "document_duration_seconds",
			Help:      "Time spent parsing and storing one document",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "loader",
			Name:      "documents_in_flight",
			Help:      "Documents currently being loaded",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.documentsTotal, m.triplesTotal, m.storedTotal, m.parseErrors, m.loadDuration, m.inFlight,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// DocumentStarted marks a document as in flight.
func (m *Metrics) DocumentStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// DocumentLoaded records a document that parsed and stored completely.
func (m *Metrics) DocumentLoaded(parsed, stored int, duration time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.documentsTotal.WithLabelValues("loaded").Inc()
	m.triplesTotal.Add(float64(parsed))
	m.storedTotal.Add(float64(stored))
	m.loadDuration.Observe(duration.Seconds())
}

// DocumentFailed records a document that stopped early. kind names the
// parse error kind; the triples emitted before the failure still count.
func (m *Metrics) DocumentFailed(kind string, parsed, stored int, duration time.Duration) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	m.documentsTotal.WithLabelValues("failed").Inc()
	m.parseErrors.WithLabelValues(kind).Inc()
	m.triplesTotal.Add(float64(parsed))
	m.storedTotal.Add(float64(stored))
	m.loadDuration.Observe(duration.Seconds())
}
