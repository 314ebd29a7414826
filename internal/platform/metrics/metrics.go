package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"infant-care-log/internal/engine"
)

const namespace = "infant_care"

// Metrics implementa engine.Observer sobre un registry propio.
type Metrics struct {
	reg *prometheus.Registry

	requests  *prometheus.CounterVec
	malformed prometheus.Counter
	renders   *prometheus.CounterVec
	lastGood  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{reg: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_requests_total",
		Help:      "Requests to the remote store by method and status",
	}, []string{"method", "status"})
	m.malformed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_malformed_responses_total",
		Help:      "Read responses whose body could not be decoded",
	})
	m.renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "renders_total",
		Help:      "Render records produced, by state",
	}, []string{"state"})
	m.lastGood = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_successful_read_timestamp_seconds",
		Help:      "Unix timestamp of the last successful read",
	})

	m.reg.MustRegister(
		m.requests, m.malformed, m.renders, m.lastGood,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveRequest(method engine.Method, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.requests.WithLabelValues(string(method), status).Inc()
	if err == nil && method == engine.MethodRead {
		m.lastGood.SetToCurrentTime()
	}
}

func (m *Metrics) ObserveMalformed() { m.malformed.Inc() }

func (m *Metrics) ObserveRender(loading bool) {
	state := "ready"
	if loading {
		state = "loading"
	}
	m.renders.WithLabelValues(state).Inc()
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler expone el registry en formato Prometheus (/metrics).
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
