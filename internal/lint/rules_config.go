package lint

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// TitlePairingRule enforces the naming convention the configuration file
// itself never validates: every `ART-*` key needs a `TITLE-*` counterpart
// and vice versa. A missing counterpart renders as an empty title or a
// dead link with no visible failure, which is exactly why this is the
// linter's core rule.
type TitlePairingRule struct{}

func (r *TitlePairingRule) Name() string { return "title-pairing" }

func (r *TitlePairingRule) Check(s *site.Site) []Issue {
	var issues []Issue
	configPath := s.ConfigPath()

	for _, e := range s.Config.Entries() {
		switch {
		case e.HasPath && !e.HasTitle:
			issues = append(issues, Issue{
				FilePath: configPath,
				Line:     e.PathLine,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%s has no matching %s", siteconfig.ArticlePrefix+e.Suffix, siteconfig.TitlePrefix+e.Suffix),
				Explanation: "Pages referencing this article's title will render an empty string; " +
					"the path is reachable but effectively untitled.",
				Fix: fmt.Sprintf("add `%s%s: <title>` to %s", siteconfig.TitlePrefix, e.Suffix, configPath),
			})
		case e.HasTitle && !e.HasPath:
			issues = append(issues, Issue{
				FilePath: configPath,
				Line:     e.TitleLine,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%s has no matching %s", siteconfig.TitlePrefix+e.Suffix, siteconfig.ArticlePrefix+e.Suffix),
				Explanation: "The title can never be linked anywhere: there is no URL path registered " +
					"for this article suffix.",
				Fix: fmt.Sprintf("add `%s%s: /path/` to %s", siteconfig.ArticlePrefix, e.Suffix, configPath),
			})
		}

		// The repository link map is independent: a REPO-* key without an
		// article is suspicious but not broken.
		if e.HasRepo && !e.HasPath {
			issues = append(issues, Issue{
				FilePath: configPath,
				Line:     e.RepoLine,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("%s has no matching %s", siteconfig.RepoPrefix+e.Suffix, siteconfig.ArticlePrefix+e.Suffix),
				Fix:      "remove the orphan key or register the article",
			})
		}
	}
	return issues
}

// DuplicateKeyRule reports repeated top-level configuration keys. YAML
// keeps the last occurrence, so the earlier value is dead weight that
// usually signals a botched edit.
type DuplicateKeyRule struct{}

func (r *DuplicateKeyRule) Name() string { return "duplicate-key" }

func (r *DuplicateKeyRule) Check(s *site.Site) []Issue {
	var issues []Issue
	for _, d := range s.Config.Duplicates {
		issues = append(issues, Issue{
			FilePath:    s.ConfigPath(),
			Line:        d.Line,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     fmt.Sprintf("duplicate key %q (first declared on line %d)", d.Key, d.FirstLine),
			Explanation: "YAML silently keeps the last value; the earlier declaration never takes effect.",
		})
	}
	return issues
}

// SettingValuesRule surfaces the configuration's shape and value problems
// as lint issues: structural problems recorded at decode time are errors,
// value-level complaints from validation are warnings.
type SettingValuesRule struct{}

func (r *SettingValuesRule) Name() string { return "setting-values" }

func (r *SettingValuesRule) Check(s *site.Site) []Issue {
	var issues []Issue
	configPath := s.ConfigPath()

	for _, p := range s.Config.Problems {
		issues = append(issues, Issue{
			FilePath: configPath,
			Line:     p.Line,
			Severity: SeverityError,
			Rule:     r.Name(),
			Message:  problemMessage(p),
		})
	}
	for _, p := range siteconfig.Validate(s.Config) {
		issues = append(issues, Issue{
			FilePath: configPath,
			Line:     p.Line,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  problemMessage(p),
		})
	}
	return issues
}

func problemMessage(p siteconfig.Problem) string {
	if p.Key == "" {
		return p.Reason
	}
	return fmt.Sprintf("%s: %s", p.Key, p.Reason)
}

// UnknownSettingRule reports top-level keys outside the known schema.
// They are harmless (the generator exposes them as site variables), so
// this is informational only.
type UnknownSettingRule struct{}

func (r *UnknownSettingRule) Name() string { return "unknown-setting" }

func (r *UnknownSettingRule) Check(s *site.Site) []Issue {
	var issues []Issue
	for _, u := range s.Config.Unknown {
		issues = append(issues, Issue{
			FilePath: s.ConfigPath(),
			Line:     u.Line,
			Severity: SeverityInfo,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("unrecognized setting %q", u.Key),
		})
	}
	return issues
}
