package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/lint"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() *lint.Result {
	return &lint.Result{
		FilesTotal: 4,
		Issues: []lint.Issue{
			{FilePath: "_config.yml", Line: 7, Rule: "title-pairing", Severity: lint.SeverityError, Message: "article path ART-X has no matching TITLE-X"},
			{FilePath: "_drafts/one.md", Rule: "front-matter", Severity: lint.SeverityWarning, Message: "missing title"},
			{FilePath: "_config.yml", Line: 2, Rule: "unknown-setting", Severity: lint.SeverityInfo, Message: "unknown key"},
		},
	}
}

func TestAppendAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	started := time.Now().Add(-time.Second)
	id, err := s.Append(ctx, TriggerCLI, started, time.Now(), sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, id, run.ID)
	assert.Equal(t, TriggerCLI, run.Trigger)
	assert.Equal(t, 4, run.Files)
	assert.Equal(t, 1, run.Errors)
	assert.Equal(t, 1, run.Warnings)
	assert.Equal(t, 1, run.Infos)
	assert.WithinDuration(t, started, run.StartedAt, time.Second)
}

func TestRecentOrdering(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := range 3 {
		started := base.Add(time.Duration(i) * time.Minute)
		id, err := s.Append(ctx, TriggerWatch, started, started.Add(time.Second), &lint.Result{FilesTotal: 1})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	runs, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].ID)
	assert.Equal(t, ids[1], runs[1].ID)

	last, err := s.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, ids[2], last.ID)
}

func TestLastOnEmptyLedger(t *testing.T) {
	s := openStore(t)

	last, err := s.Last(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestRunIssues(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Append(ctx, TriggerSchedule, time.Now(), time.Now(), sampleResult())
	require.NoError(t, err)

	issues, err := s.RunIssues(ctx, id)
	require.NoError(t, err)
	require.Len(t, issues, 3)

	// Sorted by file, line, rule.
	assert.Equal(t, "_config.yml", issues[0].File)
	assert.Equal(t, 2, issues[0].Line)
	assert.Equal(t, "unknown-setting", issues[0].Rule)
	assert.Equal(t, "INFO", issues[0].Severity)

	assert.Equal(t, "title-pairing", issues[1].Rule)
	assert.Equal(t, "ERROR", issues[1].Severity)

	assert.Equal(t, "_drafts/one.md", issues[2].File)
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var newest string
	for i := range 5 {
		started := base.Add(time.Duration(i) * time.Minute)
		id, err := s.Append(ctx, TriggerCLI, started, started, sampleResult())
		require.NoError(t, err)
		newest = id
	}

	removed, err := s.Prune(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, removed)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newest, runs[0].ID)

	// Cascade removed the pruned runs' issues.
	for _, run := range runs {
		issues, err := s.RunIssues(ctx, run.ID)
		require.NoError(t, err)
		assert.Len(t, issues, 3)
	}
}
