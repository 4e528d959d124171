// Package metrics defines the observability hooks the daemon records:
// lint runs, issue counts, link checks, and watch events. The Prometheus
// implementation backs the daemon's /metrics endpoint; the noop variant
// keeps metrics optional everywhere else.
package metrics

import "time"

// LinkResult enumerates link-check outcome labels.
type LinkResult string

const (
	LinkOK      LinkResult = "ok"
	LinkWarning LinkResult = "warning"
	LinkBroken  LinkResult = "broken"
	LinkCached  LinkResult = "cached"
)

// Recorder defines the daemon's observability hooks. Implementations must
// be safe for concurrent use.
type Recorder interface {
	IncLintRun(trigger string)
	ObserveLintDuration(d time.Duration)
	SetIssueCounts(errors, warnings, infos int)
	IncLinkCheck(result LinkResult)
	IncWatchEvent()
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncLintRun(string)              {}
func (NoopRecorder) ObserveLintDuration(time.Duration) {}
func (NoopRecorder) SetIssueCounts(int, int, int)   {}
func (NoopRecorder) IncLinkCheck(LinkResult)        {}
func (NoopRecorder) IncWatchEvent()                 {}
