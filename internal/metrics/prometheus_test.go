package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorderScrape(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncLintRun("cli")
	rec.IncLintRun("watch")
	rec.IncLintRun("watch")
	rec.ObserveLintDuration(120 * time.Millisecond)
	rec.SetIssueCounts(2, 1, 0)
	rec.IncLinkCheck(LinkBroken)
	rec.IncWatchEvent()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(w, req)
	require.Equal(t, 200, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `blogkit_lint_runs_total{trigger="cli"} 1`)
	assert.Contains(t, body, `blogkit_lint_runs_total{trigger="watch"} 2`)
	assert.Contains(t, body, `blogkit_lint_issues{severity="error"} 2`)
	assert.Contains(t, body, `blogkit_lint_issues{severity="warning"} 1`)
	assert.Contains(t, body, `blogkit_link_checks_total{result="broken"} 1`)
	assert.Contains(t, body, "blogkit_watch_events_total 1")
	assert.True(t, strings.Contains(body, "blogkit_lint_duration_seconds"))
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.IncLintRun("cli")
	rec.ObserveLintDuration(time.Second)
	rec.SetIssueCounts(1, 2, 3)
	rec.IncLinkCheck(LinkOK)
	rec.IncWatchEvent()
}
