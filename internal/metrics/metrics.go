package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"server/internal/domain"
)

// Recorder is the metrics surface used by the handlers and services.
type Recorder interface {
	RecordSessionIssued(tier domain.Tier, guest bool)
	RecordQuotaRejection(tier domain.Tier, guest bool)
	RecordUpstreamFailure(service string)
	RecordFitAnalysis(outcome string)
}

// Collector implements Recorder on top of Prometheus counters.
type Collector struct {
	sessionsIssued   *prometheus.CounterVec
	quotaRejections  *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	fitAnalyses      *prometheus.CounterVec
}

// NewCollector registers the service counters on the given registry. A nil
// registry means the process-default one.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		sessionsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_chat_sessions_issued_total",
			Help: "Chat sessions successfully provisioned, by audience.",
		}, []string{"audience"}),
		quotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_quota_rejections_total",
			Help: "Provisioning attempts rejected by the daily quota, by audience.",
		}, []string{"audience"}),
		upstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_upstream_failures_total",
			Help: "Failed calls to third-party APIs, by service.",
		}, []string{"service"}),
		fitAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_fit_analyses_total",
			Help: "Job-fit analyses, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.sessionsIssued,
		c.quotaRejections,
		c.upstreamFailures,
		c.fitAnalyses,
	)

	return c
}

func audienceLabel(tier domain.Tier, guest bool) string {
	if guest {
		return "guest"
	}
	return string(tier)
}

func (c *Collector) RecordSessionIssued(tier domain.Tier, guest bool) {
	c.sessionsIssued.WithLabelValues(audienceLabel(tier, guest)).Inc()
}

func (c *Collector) RecordQuotaRejection(tier domain.Tier, guest bool) {
	c.quotaRejections.WithLabelValues(audienceLabel(tier, guest)).Inc()
}

func (c *Collector) RecordUpstreamFailure(service string) {
	c.upstreamFailures.WithLabelValues(service).Inc()
}

func (c *Collector) RecordFitAnalysis(outcome string) {
	c.fitAnalyses.WithLabelValues(outcome).Inc()
}

// Noop discards all recordings. Used by tests and as a safe default.
type Noop struct{}

func (Noop) RecordSessionIssued(domain.Tier, bool)  {}
func (Noop) RecordQuotaRejection(domain.Tier, bool) {}
func (Noop) RecordUpstreamFailure(string)           {}
func (Noop) RecordFitAnalysis(string)               {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Noop{}
)
