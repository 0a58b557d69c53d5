package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stage names used as the "stage" label of StageLatency
const (
	StageWhois    = "whois"
	StageDNS      = "dns"
	StageFetch    = "fetch"
	StageParse    = "parse"
	StageClassify = "classify"
)

// Metrics provides observability for domain classification.
type Metrics struct {
	// Verdicts by status and by the rule that settled them
	Verdicts *prometheus.CounterVec

	// DNS lookups by outcome: resolved, nxdomain, no_address, error
	DNSLookups *prometheus.CounterVec

	// Homepage fetches by outcome: ok, error, truncated
	Fetches *prometheus.CounterVec

	// Latency of each stage of a classification
	StageLatency *prometheus.HistogramVec

	// End to end latency of one classification
	ClassifyLatency prometheus.Histogram
}

// New registers the classification metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_triage_verdicts_total",
			Help: "Total verdicts by status and deciding rule",
		}, []string{"status", "rule"}),

		DNSLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_triage_dns_lookups_total",
			Help: "Total DNS lookups by outcome",
		}, []string{"outcome"}),

		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "domain_triage_fetches_total",
			Help: "Total homepage fetches by outcome",
		}, []string{"outcome"}),

		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "domain_triage_stage_duration_seconds",
			Help:    "Duration of each classification stage",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		ClassifyLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "domain_triage_classify_duration_seconds",
			Help:    "Duration of a full classification including network I/O",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
	}
}

// IncrementVerdict records a verdict.
func (m *Metrics) IncrementVerdict(status, rule string) {
	if m != nil {
		m.Verdicts.WithLabelValues(status, rule).Inc()
	}
}

// IncrementDNSLookup records the outcome of a DNS lookup.
func (m *Metrics) IncrementDNSLookup(outcome string) {
	if m != nil {
		m.DNSLookups.WithLabelValues(outcome).Inc()
	}
}

// IncrementFetch records the outcome of a homepage fetch.
func (m *Metrics) IncrementFetch(outcome string) {
	if m != nil {
		m.Fetches.WithLabelValues(outcome).Inc()
	}
}

// ObserveStage records the duration of one stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// ObserveClassify records the duration of a full classification.
func (m *Metrics) ObserveClassify(d time.Duration) {
	if m != nil {
		m.ClassifyLatency.Observe(d.Seconds())
	}
}

// Handler exposes the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
