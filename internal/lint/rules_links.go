package lint

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/markdown"
	"git.home.luguber.info/inful/blogkit/internal/site"
)

// InternalLinkRule checks site-absolute markdown link destinations: each
// must match a configured `ART-*` path or an existing file in the
// repository. External URLs are the link checker's concern, not this
// rule's.
type InternalLinkRule struct{}

func (r *InternalLinkRule) Name() string { return "internal-link" }

func (r *InternalLinkRule) Check(s *site.Site) []Issue {
	known := make(map[string]bool)
	for _, suffix := range s.Config.Articles.Suffixes() {
		if path, ok := s.Config.Articles.Get(suffix); ok {
			known[normalizePath(path)] = true
		}
	}

	var issues []Issue
	for _, p := range s.Pages {
		var anchors map[string]bool
		for _, link := range markdown.ExtractLinks(p.Body) {
			dest, fragment := splitFragment(link.Destination)
			if dest == "" && fragment != "" {
				// Same-page anchor; resolvable against this page's headings.
				if anchors == nil {
					anchors = pageAnchors(p.Body)
				}
				if !anchors[fragment] {
					issues = append(issues, Issue{
						FilePath: p.Path,
						Severity: SeverityWarning,
						Rule:     r.Name(),
						Message:  fmt.Sprintf("anchor link %q matches no heading in this page", link.Destination),
						Fix:      "add the heading, or point the link at an existing one",
					})
				}
				continue
			}
			if !strings.HasPrefix(dest, "/") {
				continue
			}
			if known[normalizePath(dest)] {
				continue
			}
			if fileExists(filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(dest, "/")))) {
				continue
			}
			issues = append(issues, Issue{
				FilePath: p.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  fmt.Sprintf("internal link %q matches no article path and no file", link.Destination),
				Fix:      fmt.Sprintf("register an ART-* entry with this path in %s, or fix the link", s.ConfigPath()),
			})
		}
	}
	return issues
}

// normalizePath makes trailing-slash handling uniform: article permalinks
// are commonly written with a trailing slash, links without.
func normalizePath(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func splitFragment(dest string) (path, fragment string) {
	if i := strings.IndexByte(dest, '#'); i >= 0 {
		return dest[:i], dest[i+1:]
	}
	return dest, ""
}

func pageAnchors(body []byte) map[string]bool {
	anchors := make(map[string]bool)
	for _, h := range markdown.ExtractHeadings(body) {
		anchors[h.Anchor] = true
	}
	return anchors
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
