package lint

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/liquid"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// FrontMatterRule checks every page's YAML header: unparseable headers
// are errors, a missing header or a missing `title:` is a warning.
type FrontMatterRule struct{}

func (r *FrontMatterRule) Name() string { return "front-matter" }

func (r *FrontMatterRule) Check(s *site.Site) []Issue {
	var issues []Issue
	for _, p := range s.Pages {
		switch {
		case p.FrontMatterErr != nil:
			issues = append(issues, Issue{
				FilePath: p.Path,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  "front matter cannot be parsed",
				Explanation: fmt.Sprintf("%v", p.FrontMatterErr) +
					"\nThe generator would treat the whole file as body text.",
			})
		case !p.HasFrontMatter:
			issues = append(issues, Issue{
				FilePath: p.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  "no front matter block",
				Fix:      "start the file with a `---` delimited YAML header",
			})
		case p.Title() == "":
			issues = append(issues, Issue{
				FilePath: p.Path,
				Severity: SeverityWarning,
				Rule:     r.Name(),
				Message:  "front matter has no title",
			})
		}
	}
	return issues
}

// PostFilenameRule enforces filename conventions: posts must carry a valid
// `YYYY-MM-DD-slug` name, drafts must not carry a date prefix.
type PostFilenameRule struct{}

func (r *PostFilenameRule) Name() string { return "post-filename" }

func (r *PostFilenameRule) Check(s *site.Site) []Issue {
	var issues []Issue
	for _, p := range s.Pages {
		switch p.Collection {
		case content.CollectionPost:
			if _, err := content.ParsePostFilename(p.Name()); err != nil {
				issues = append(issues, Issue{
					FilePath:    p.Path,
					Severity:    SeverityError,
					Rule:        r.Name(),
					Message:     "post filename does not match YYYY-MM-DD-slug.md",
					Explanation: fmt.Sprintf("%v", err),
					Fix:         "rename the file or run `blogkit publish` on the draft instead of moving it by hand",
				})
			}
		case content.CollectionDraft:
			if p.DatedDraft {
				issues = append(issues, Issue{
					FilePath: p.Path,
					Severity: SeverityWarning,
					Rule:     r.Name(),
					Message:  "draft filename carries a date prefix",
					Explanation: "Drafts are undated by convention; the date is stamped when the " +
						"draft is published.",
				})
			}
		}
	}
	return issues
}

// UnresolvedReferenceRule checks every `{{ site.X }}` reference in every
// page against the configuration. The generator substitutes an empty
// string for unknown variables, so each unresolved reference is an error.
type UnresolvedReferenceRule struct{}

func (r *UnresolvedReferenceRule) Name() string { return "unresolved-reference" }

func (r *UnresolvedReferenceRule) Check(s *site.Site) []Issue {
	var issues []Issue
	for _, p := range s.Pages {
		_, unresolved := liquid.Resolve(liquid.Scan(p.Body), s.Config)
		for _, ref := range unresolved {
			issues = append(issues, Issue{
				FilePath:    p.Path,
				Line:        ref.Line + p.BodyOffset,
				Severity:    SeverityError,
				Rule:        r.Name(),
				Message:     fmt.Sprintf("no site variable satisfies %s", ref.Raw),
				Explanation: "The generator substitutes an empty string here, producing broken text or a dead link.",
				Fix:         fmt.Sprintf("declare `%s` in %s or fix the reference", ref.Name, s.ConfigPath()),
			})
		}
	}
	return issues
}

// UnreferencedArticleRule reports `ART-*` entries nothing points at: no
// page references the variable and no post's slug appears in the path.
// Cross-linking is optional, so this is informational.
type UnreferencedArticleRule struct{}

func (r *UnreferencedArticleRule) Name() string { return "unreferenced-article" }

func (r *UnreferencedArticleRule) Check(s *site.Site) []Issue {
	referenced := make(map[string]bool)
	for _, p := range s.Pages {
		for _, ref := range liquid.Scan(p.Body) {
			referenced[ref.Name] = true
		}
	}

	var postSlugs []string
	for _, p := range s.Posts() {
		if p.Slug != "" {
			postSlugs = append(postSlugs, p.Slug)
		}
	}

	var issues []Issue
	for _, suffix := range s.Config.Articles.Suffixes() {
		if referenced[siteconfig.ArticlePrefix+suffix] {
			continue
		}
		path, _ := s.Config.Articles.Get(suffix)
		if pathMatchesAnySlug(path, postSlugs) {
			continue
		}
		issues = append(issues, Issue{
			FilePath: s.ConfigPath(),
			Line:     s.Config.Articles.Line(suffix),
			Severity: SeverityInfo,
			Rule:     r.Name(),
			Message:  fmt.Sprintf("%s%s is never referenced by any page or post", siteconfig.ArticlePrefix, suffix),
		})
	}
	return issues
}

func pathMatchesAnySlug(path string, slugs []string) bool {
	for _, slug := range slugs {
		if slug != "" && strings.Contains(path, slug) {
			return true
		}
	}
	return false
}
