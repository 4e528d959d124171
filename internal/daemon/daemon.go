// Package daemon implements blogkit's watch mode: a long-running process
// that re-lints the blog whenever its content changes, sweeps external
// links on a schedule, records history in the ledger, and serves status
// over HTTP.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogkit/internal/ledger"
	"git.home.luguber.info/inful/blogkit/internal/linkcheck"
	"git.home.luguber.info/inful/blogkit/internal/lint"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/notify"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// keepRuns bounds the ledger so watch mode does not grow it forever.
const keepRuns = 500

// Daemon watches a blog repository and keeps its lint state current.
type Daemon struct {
	root     string
	settings siteconfig.Settings

	store    *ledger.Store
	checker  *linkcheck.Checker
	recorder metrics.Recorder
	registry *prom.Registry
	notifier notify.Notifier

	watcher   *Watcher
	scheduler gocron.Scheduler
	server    *Server

	mu         sync.RWMutex
	lastResult *lint.Result
	lastRunID  string
	lastRunAt  time.Time
	prevErrors int
}

// Option overrides one daemon setting resolved from the configuration.
type Option func(*options)

type options struct {
	listenAddr string
	dataDir    string
}

// WithListenAddr overrides the status server address from blogkit.watch.addr.
func WithListenAddr(addr string) Option {
	return func(o *options) { o.listenAddr = addr }
}

// WithDataDir overrides the state directory from blogkit.watch.data_dir.
func WithDataDir(dir string) Option {
	return func(o *options) { o.dataDir = dir }
}

// New builds a daemon for the blog at root. The configuration is read
// once here for the daemon's own settings; every lint run reloads it.
func New(root string, opts ...Option) (*Daemon, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	configPath, err := siteconfig.Locate(root)
	if err != nil {
		return nil, err
	}
	cfg, err := siteconfig.Load(configPath)
	if err != nil {
		return nil, err
	}
	settings := cfg.Blogkit

	if o.dataDir == "" {
		o.dataDir = settings.Watch.DataDirectory()
	}
	dataDir := o.dataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(root, dataDir)
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	store, err := ledger.Open(filepath.Join(dataDir, "ledger.db"))
	if err != nil {
		return nil, err
	}

	var checker *linkcheck.Checker
	if settings.LinkCheck.IsEnabled() {
		checker, err = linkcheck.NewChecker(settings.LinkCheck)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	registry := prom.NewRegistry()
	metrics.RegisterRuntimeCollectors(registry)
	recorder := metrics.NewPrometheusRecorder(registry)

	var notifier notify.Notifier
	if settings.Notify.SlackWebhookURL != "" {
		notifier = notify.NewSlack(settings.Notify.SlackWebhookURL)
	}

	d := &Daemon{
		root:     root,
		settings: settings,
		store:    store,
		checker:  checker,
		recorder: recorder,
		registry: registry,
		notifier: notifier,
	}
	if o.listenAddr == "" {
		o.listenAddr = settings.Watch.ListenAddr()
	}
	d.server = NewServer(o.listenAddr, d)
	return d, nil
}

// Run starts all daemon components and blocks until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	watcher, err := NewWatcher(d.root, d.settings.Watch.DebounceWindow())
	if err != nil {
		return err
	}
	d.watcher = watcher
	watcher.Start(ctx)

	if d.checker != nil {
		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		d.scheduler = scheduler
		_, err = scheduler.NewJob(
			gocron.DurationJob(d.settings.LinkCheck.SweepInterval()),
			gocron.NewTask(func() { d.runLinkSweep(ctx) }),
			gocron.WithName("link-sweep"),
		)
		if err != nil {
			return fmt.Errorf("schedule link sweep: %w", err)
		}
		scheduler.Start()
	}

	d.server.Start()

	// Baseline run so status reflects reality before the first change.
	d.runLint(ctx, ledger.TriggerWatch)

	for {
		select {
		case <-ctx.Done():
			return d.shutdown()
		case <-watcher.Changes():
			d.recorder.IncWatchEvent()
			d.runLint(ctx, ledger.TriggerWatch)
		}
	}
}

func (d *Daemon) shutdown() error {
	slog.Info("Daemon shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := d.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Status server shutdown failed", logfields.Error(err))
	}
	if d.scheduler != nil {
		if err := d.scheduler.Shutdown(); err != nil {
			slog.Error("Scheduler shutdown failed", logfields.Error(err))
		}
	}
	if d.watcher != nil {
		_ = d.watcher.Stop()
	}
	if d.checker != nil {
		_ = d.checker.Close()
	}
	return d.store.Close()
}

// runLint performs one full lint pass and records everything.
func (d *Daemon) runLint(ctx context.Context, trigger ledger.Trigger) {
	started := time.Now()

	s, err := site.Load(d.root)
	if err != nil {
		slog.Error("Site load failed", logfields.Error(err))
		return
	}

	linter := lint.NewLinter(&lint.Config{Disabled: s.Config.Blogkit.Lint.Disable})
	result := linter.Run(s)
	finished := time.Now()

	runID, err := d.store.Append(ctx, trigger, started, finished, result)
	if err != nil {
		slog.Error("Ledger append failed", logfields.Error(err))
	} else if _, err := d.store.Prune(ctx, keepRuns); err != nil {
		slog.Warn("Ledger prune failed", logfields.Error(err))
	}

	d.recorder.IncLintRun(string(trigger))
	d.recorder.ObserveLintDuration(finished.Sub(started))
	d.recorder.SetIssueCounts(result.ErrorCount(), result.WarningCount(), result.InfoCount())

	d.mu.Lock()
	prev := d.prevErrors
	d.prevErrors = result.ErrorCount()
	d.lastResult = result
	d.lastRunID = runID
	d.lastRunAt = finished
	d.mu.Unlock()

	slog.Info("Lint run finished",
		logfields.RunID(runID),
		logfields.Trigger(string(trigger)),
		logfields.Count(len(result.Issues)),
		logfields.DurationMS(float64(finished.Sub(started).Milliseconds())))

	if d.notifier != nil && result.ErrorCount() > prev {
		if err := d.notifier.LintRegression(ctx, result.ErrorCount()-prev, result); err != nil {
			slog.Error("Regression notification failed", logfields.Error(err))
		}
	}
}

// runLinkSweep verifies external links and records the outcome as a
// scheduled run containing only external-link issues.
func (d *Daemon) runLinkSweep(ctx context.Context) {
	started := time.Now()

	s, err := site.Load(d.root)
	if err != nil {
		slog.Error("Site load failed", logfields.Error(err))
		return
	}

	outcomes := d.checker.Run(ctx, s)
	var broken []string
	for _, out := range outcomes {
		switch {
		case out.Cached:
			d.recorder.IncLinkCheck(metrics.LinkCached)
		case out.State == linkcheck.StateOK:
			d.recorder.IncLinkCheck(metrics.LinkOK)
		case out.State == linkcheck.StateWarning:
			d.recorder.IncLinkCheck(metrics.LinkWarning)
		default:
			d.recorder.IncLinkCheck(metrics.LinkBroken)
		}
		if out.State == linkcheck.StateError {
			broken = append(broken, out.URL)
		}
	}

	result := &lint.Result{
		Issues:     linkcheck.Issues(outcomes),
		FilesTotal: len(s.Pages) + 1,
	}
	if _, err := d.store.Append(ctx, ledger.TriggerSchedule, started, time.Now(), result); err != nil {
		slog.Error("Ledger append failed", logfields.Error(err))
	}
	d.recorder.IncLintRun(string(ledger.TriggerSchedule))

	slog.Info("Link sweep finished",
		logfields.Count(len(outcomes)),
		slog.Int("broken", len(broken)))

	if d.notifier != nil && len(broken) > 0 {
		if err := d.notifier.LinkBreakage(ctx, broken); err != nil {
			slog.Error("Breakage notification failed", logfields.Error(err))
		}
	}
}

// snapshot returns the daemon's current lint state for the status API.
func (d *Daemon) snapshot() (result *lint.Result, runID string, at time.Time) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastResult, d.lastRunID, d.lastRunAt
}
