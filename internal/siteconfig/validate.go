package siteconfig

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Enumerated choices for the processor-selecting scalars. The external
// tool only understands these.
var (
	markdownDialects   = []string{"kramdown", "commonmark"}
	highlighters       = []string{"rouge", "pygments", "none"}
	kramdownInputs     = []string{"GFM", "kramdown"}
	syntaxHighlighters = []string{"rouge", "coderay"}
)

// Validate checks value-level expectations the external consumer imposes on
// the configuration and returns them as key-scoped problems with line
// numbers. Structural problems recorded at decode time are not repeated
// here; callers that want everything combine Problems with Validate().
func Validate(c *Config) []Problem {
	var out []Problem

	report := func(key, reason string) {
		out = append(out, Problem{Key: key, Line: c.Line(key), Reason: reason})
	}

	if c.Markdown != "" && !oneOf(c.Markdown, markdownDialects) {
		report(KeyMarkdown, fmt.Sprintf("unknown markdown processor %q (expected one of %s)", c.Markdown, strings.Join(markdownDialects, ", ")))
	}
	if c.Highlighter != "" && !oneOf(c.Highlighter, highlighters) {
		report(KeyHighlighter, fmt.Sprintf("unknown highlighter %q (expected one of %s)", c.Highlighter, strings.Join(highlighters, ", ")))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			report(KeyTimezone, fmt.Sprintf("not an IANA timezone name: %q", c.Timezone))
		}
	}
	if c.Coding != "" && !strings.EqualFold(c.Coding, "utf-8") {
		report(KeyCoding, fmt.Sprintf("coding %q is unusual; the generator assumes utf-8", c.Coding))
	}

	if c.Kramdown.Present() {
		if c.Kramdown.Input != "" && !oneOf(c.Kramdown.Input, kramdownInputs) {
			report("kramdown.input", fmt.Sprintf("unknown kramdown input %q (expected one of %s)", c.Kramdown.Input, strings.Join(kramdownInputs, ", ")))
		}
		if c.Kramdown.SyntaxHighlighter != "" && !oneOf(c.Kramdown.SyntaxHighlighter, syntaxHighlighters) {
			report("kramdown.syntax_highlighter", fmt.Sprintf("unknown kramdown syntax highlighter %q", c.Kramdown.SyntaxHighlighter))
		}
		if c.Kramdown.SmartQuotes != "" {
			if reason := smartQuotesProblem(c.Kramdown.SmartQuotes); reason != "" {
				report("kramdown.smart_quotes", reason)
			}
		}
	}

	for _, suffix := range c.Articles.Suffixes() {
		value, _ := c.Articles.Get(suffix)
		if reason := articlePathProblem(value); reason != "" {
			out = append(out, Problem{Key: c.Articles.Key(suffix), Line: c.Articles.Line(suffix), Reason: reason})
		}
	}
	for _, suffix := range c.Repos.Suffixes() {
		value, _ := c.Repos.Get(suffix)
		if reason := repoURLProblem(value); reason != "" {
			out = append(out, Problem{Key: c.Repos.Key(suffix), Line: c.Repos.Line(suffix), Reason: reason})
		}
	}
	for _, suffix := range c.Titles.Suffixes() {
		value, _ := c.Titles.Get(suffix)
		if strings.TrimSpace(value) == "" {
			out = append(out, Problem{Key: c.Titles.Key(suffix), Line: c.Titles.Line(suffix), Reason: "empty title"})
		}
	}

	return out
}

// articlePathProblem validates an ART-* value: a site-absolute path.
func articlePathProblem(value string) string {
	switch {
	case strings.TrimSpace(value) == "":
		return "empty article path"
	case strings.Contains(value, "://"):
		return "article paths are site-relative; absolute URLs belong in REPO-* keys"
	case !strings.HasPrefix(value, "/"):
		return "article path must start with /"
	case strings.ContainsAny(value, " \t"):
		return "article path contains whitespace"
	}
	return ""
}

// repoURLProblem validates a REPO-* value: an absolute http(s) URL.
func repoURLProblem(value string) string {
	if strings.TrimSpace(value) == "" {
		return "empty repository URL"
	}
	u, err := url.Parse(value)
	if err != nil {
		return fmt.Sprintf("not a URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Sprintf("repository URL must be http(s), got %q", u.Scheme)
	}
	if u.Host == "" {
		return "repository URL has no host"
	}
	return ""
}

// smartQuotesProblem validates the kramdown smart_quotes option: exactly
// four comma-separated entity names (left/right single, left/right double).
func smartQuotesProblem(value string) string {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return fmt.Sprintf("smart_quotes needs exactly 4 comma-separated entities, got %d", len(parts))
	}
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return "smart_quotes has an empty entity"
		}
		for _, r := range p {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				return fmt.Sprintf("smart_quotes entity %q is not a lowercase entity name", p)
			}
		}
	}
	return ""
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
