package deadlinks

import (
	"strconv"

	"github.com/foomo/deadlinks/vo"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	prometheusLabelKind   = "kind"
	prometheusLabelResult = "result"
	prometheusLabelStatus = "status"
	prometheusLabelReason = "reason"
)

// Metrics a nil *Metrics is valid and records nothing
type Metrics struct {
	documents      prometheus.Counter
	checks         *prometheus.CounterVec
	failures       *prometheus.CounterVec
	remoteDuration *prometheus.SummaryVec
}

// NewMetrics creates and registers all metrics with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		documents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "deadlinks_documents_total",
			Help: "number of scanned documents",
		}),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadlinks_checks_total",
				Help: "checked references by kind and result",
			},
			[]string{prometheusLabelKind, prometheusLabelResult},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "deadlinks_failures_total",
				Help: "failures by reason",
			},
			[]string{prometheusLabelReason},
		),
		remoteDuration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "deadlinks_remote_check_durations_seconds",
				Help:       "duration of remote HEAD requests",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			[]string{prometheusLabelStatus},
		),
	}
	reg.MustRegister(
		m.documents,
		m.checks,
		m.failures,
		m.remoteDuration,
	)
	return m
}

func (m *Metrics) trackDocument() {
	if m == nil {
		return
	}
	m.documents.Inc()
}

func (m *Metrics) trackCheck(kind vo.ReferenceKind, o vo.Outcome) {
	if m == nil {
		return
	}
	result := "ok"
	if !o.OK() {
		result = "failed"
	}
	m.checks.WithLabelValues(string(kind), result).Inc()
}

func (m *Metrics) trackFailure(reason vo.Reason) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) trackRemote(check vo.RemoteCheck) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(strconv.Itoa(check.StatusCode)).Observe(check.Duration.Seconds())
}
