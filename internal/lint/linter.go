// Package lint checks a loaded site for integrity: the title/path pairing
// convention across the configuration's key families, the shape of drafts
// and posts, and every `{{ site.X }}` reference and internal link the
// external generator would otherwise silently turn into an empty string or
// a dead URL.
package lint

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/site"
)

// Rule checks one integrity concern across the whole site.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// Check inspects the site and returns any issues found.
	Check(s *site.Site) []Issue
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses info and warnings, only reporting errors.
	Quiet bool

	// Disabled lists rule names to skip (from the `blogkit.lint.disable`
	// section of `_config.yml`, or flags).
	Disabled []string
}

// Linter applies all rules to a loaded site.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter with the standard rule set.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&TitlePairingRule{},
			&DuplicateKeyRule{},
			&SettingValuesRule{},
			&UnknownSettingRule{},
			&FrontMatterRule{},
			&PostFilenameRule{},
			&UnresolvedReferenceRule{},
			&UnreferencedArticleRule{},
			&InternalLinkRule{},
		},
	}
}

// Rules returns the active rule names after disabling.
func (l *Linter) Rules() []string {
	var names []string
	for _, r := range l.rules {
		if !l.disabled(r.Name()) {
			names = append(names, r.Name())
		}
	}
	return names
}

// Run applies all enabled rules and aggregates the result. Files scanned
// counts every page plus the configuration file.
func (l *Linter) Run(s *site.Site) *Result {
	start := time.Now()
	result := &Result{
		Issues:     []Issue{},
		FilesTotal: len(s.Pages) + 1,
	}

	for _, rule := range l.rules {
		if l.disabled(rule.Name()) {
			continue
		}
		for _, issue := range rule.Check(s) {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}

	slog.Debug("Lint run finished",
		logfields.Count(len(result.Issues)),
		slog.Int("files", result.FilesTotal),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return result
}

func (l *Linter) disabled(rule string) bool {
	for _, d := range l.cfg.Disabled {
		if d == rule {
			return true
		}
	}
	return false
}
