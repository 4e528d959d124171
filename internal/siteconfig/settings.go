package siteconfig

import (
	"strings"
	"time"
)

// Settings is the `blogkit` section of `_config.yml`: the tool's own knobs,
// riding in the site file the way Jekyll plugin configuration does.
type Settings struct {
	Lint      LintSettings      `yaml:"lint"`
	LinkCheck LinkCheckSettings `yaml:"link_check"`
	Watch     WatchSettings     `yaml:"watch"`
	Notify    NotifySettings    `yaml:"notify"`
}

// LintSettings tunes the linter.
type LintSettings struct {
	// Disable lists rule names to skip.
	Disable []string `yaml:"disable,omitempty"`
}

// Disabled reports whether a rule name is disabled.
func (s LintSettings) Disabled(rule string) bool {
	for _, d := range s.Disable {
		if d == rule {
			return true
		}
	}
	return false
}

// LinkCheckSettings tunes external link verification.
type LinkCheckSettings struct {
	Enabled     *bool    `yaml:"enabled,omitempty"` // default true
	Timeout     string   `yaml:"timeout,omitempty"`
	Concurrency int      `yaml:"concurrency,omitempty"`
	Interval    string   `yaml:"interval,omitempty"` // daemon sweep cadence
	CacheTTL    string   `yaml:"cache_ttl,omitempty"`
	Skip        []string `yaml:"skip,omitempty"` // substring patterns to exempt

	// NATS wiring is optional; when NATSURL is empty the checker uses an
	// in-process cache and publishes nothing.
	NATSURL     string `yaml:"nats_url,omitempty"`
	NATSSubject string `yaml:"nats_subject,omitempty"`
	NATSBucket  string `yaml:"nats_bucket,omitempty"`
}

// IsEnabled resolves the default-true enabled flag.
func (s LinkCheckSettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// RequestTimeout returns the per-request timeout (default 10s).
func (s LinkCheckSettings) RequestTimeout() time.Duration {
	return parseDurationDefault(s.Timeout, 10*time.Second)
}

// SweepInterval returns the daemon's periodic sweep cadence (default 6h).
func (s LinkCheckSettings) SweepInterval() time.Duration {
	return parseDurationDefault(s.Interval, 6*time.Hour)
}

// ResultTTL returns how long a verified URL stays cached (default 24h).
func (s LinkCheckSettings) ResultTTL() time.Duration {
	return parseDurationDefault(s.CacheTTL, 24*time.Hour)
}

// MaxConcurrent returns the link-check concurrency cap (default 8).
func (s LinkCheckSettings) MaxConcurrent() int {
	if s.Concurrency <= 0 {
		return 8
	}
	return s.Concurrency
}

// Skipped reports whether a URL matches a configured skip pattern.
func (s LinkCheckSettings) Skipped(url string) bool {
	for _, pat := range s.Skip {
		if pat != "" && strings.Contains(url, pat) {
			return true
		}
	}
	return false
}

// WatchSettings tunes daemon mode.
type WatchSettings struct {
	Debounce string `yaml:"debounce,omitempty"` // default 2s
	Addr     string `yaml:"addr,omitempty"`     // default :8380
	DataDir  string `yaml:"data_dir,omitempty"` // default .blogkit
}

// DebounceWindow returns the change-settling window (default 2s).
func (s WatchSettings) DebounceWindow() time.Duration {
	return parseDurationDefault(s.Debounce, 2*time.Second)
}

// ListenAddr returns the status server address (default :8380).
func (s WatchSettings) ListenAddr() string {
	if s.Addr == "" {
		return ":8380"
	}
	return s.Addr
}

// DataDirectory returns where the daemon keeps its ledger (default .blogkit).
func (s WatchSettings) DataDirectory() string {
	if s.DataDir == "" {
		return ".blogkit"
	}
	return s.DataDir
}

// NotifySettings configures outbound notifications.
type NotifySettings struct {
	// SlackWebhookURL, when set (usually via ${BLOGKIT_SLACK_WEBHOOK}),
	// receives a message when a watch run introduces new errors or a link
	// sweep finds breakage.
	SlackWebhookURL string `yaml:"slack_webhook_url,omitempty"`
}

func parseDurationDefault(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
