package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	lintRuns     *prom.CounterVec
	lintDuration prom.Histogram
	issues       *prom.GaugeVec
	linkChecks   *prom.CounterVec
	watchEvents  prom.Counter
}

// NewPrometheusRecorder constructs and registers the blogkit metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		lintRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "lint_runs_total",
			Help:      "Lint runs by trigger (cli, watch, schedule)",
		}, []string{"trigger"}),
		lintDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "blogkit",
			Name:      "lint_duration_seconds",
			Help:      "Duration of full lint runs",
			Buckets:   prom.DefBuckets,
		}),
		issues: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: "blogkit",
			Name:      "lint_issues",
			Help:      "Issue count of the most recent lint run, by severity",
		}, []string{"severity"}),
		linkChecks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "link_checks_total",
			Help:      "External link checks by result",
		}, []string{"result"}),
		watchEvents: prom.NewCounter(prom.CounterOpts{
			Namespace: "blogkit",
			Name:      "watch_events_total",
			Help:      "Filesystem change batches processed in watch mode",
		}),
	}
	reg.MustRegister(pr.lintRuns, pr.lintDuration, pr.issues, pr.linkChecks, pr.watchEvents)
	return pr
}

func (pr *PrometheusRecorder) IncLintRun(trigger string) {
	pr.lintRuns.WithLabelValues(trigger).Inc()
}

func (pr *PrometheusRecorder) ObserveLintDuration(d time.Duration) {
	pr.lintDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) SetIssueCounts(errors, warnings, infos int) {
	pr.issues.WithLabelValues("error").Set(float64(errors))
	pr.issues.WithLabelValues("warning").Set(float64(warnings))
	pr.issues.WithLabelValues("info").Set(float64(infos))
}

func (pr *PrometheusRecorder) IncLinkCheck(result LinkResult) {
	pr.linkChecks.WithLabelValues(string(result)).Inc()
}

func (pr *PrometheusRecorder) IncWatchEvent() {
	pr.watchEvents.Inc()
}
