package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes, one per terminal state of an /analyze request.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalidRequest  = "invalid_request"
	OutcomeExtractionError = "extraction_error"
	OutcomeUpstreamError   = "upstream_error"
	OutcomeInternalError   = "internal_error"
)

// Metrics owns its registry so several instances can coexist in tests.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	analyses      *prometheus.CounterVec
	llmDuration   *prometheus.HistogramVec
	zeroScoreRuns prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ats_analyses_total",
			Help: "Resume analyses by outcome.",
		}, []string{"outcome"}),
		llmDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ats_llm_request_duration_seconds",
			Help:    "Latency of chat-completion calls.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider", "status"}),
		zeroScoreRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "ats_unparsed_replies_total",
			Help: "Model replies from which no score could be extracted.",
		}),
	}
}

func (m *Metrics) ObserveAnalysis(outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLLM(provider string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.llmDuration.WithLabelValues(provider, status).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUnparsedReply() {
	if m == nil {
		return
	}
	m.zeroScoreRuns.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
