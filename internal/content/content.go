// Package content models the blog's markdown files: drafts in `_drafts/`
// and dated posts in `_posts/`. A Page keeps its front matter and body
// separate so analysis and the publishing workflow can operate on either
// without disturbing the other, and preserves the file's newline style so
// rewrites stay byte-stable for untouched regions.
package content

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
)

// Collection names the two content directories.
type Collection string

const (
	CollectionDraft Collection = "draft"
	CollectionPost  Collection = "post"
)

// Dir returns the directory name for the collection.
func (c Collection) Dir() string {
	if c == CollectionPost {
		return PostsDir
	}
	return DraftsDir
}

// Content directory names, fixed by the external generator's conventions.
const (
	DraftsDir = "_drafts"
	PostsDir  = "_posts"
)

// Page is one markdown file under `_drafts/` or `_posts/`.
type Page struct {
	// Path is the file path as discovered (relative to the blog root when
	// loaded through Discover).
	Path string

	Collection Collection

	// FrontMatter is the parsed YAML header. Nil when the file has no
	// front matter block at all (HasFrontMatter false).
	FrontMatter    map[string]any
	HasFrontMatter bool

	// FrontMatterErr records an unparseable header; the page still loads
	// with the raw body so lint can report instead of aborting.
	FrontMatterErr error

	// Body is the markdown text after the front matter block.
	Body []byte

	// BodyOffset is the number of file lines before the body starts (the
	// front matter block including both delimiters), so body-relative
	// line numbers can be reported as file line numbers.
	BodyOffset int

	Style Style

	// Date and Slug are parsed from the filename for posts. Drafts carry
	// only Slug.
	Date time.Time
	Slug string

	// DatedDraft marks a draft whose filename carries a date prefix.
	DatedDraft bool
}

// Title returns the front matter title, or "" when absent.
func (p *Page) Title() string {
	if p.FrontMatter == nil {
		return ""
	}
	t, _ := p.FrontMatter["title"].(string)
	return t
}

// Name returns the page's base filename.
func (p *Page) Name() string { return filepath.Base(p.Path) }

// ReadPage loads and parses one markdown file. The collection determines
// filename parsing: posts must carry a date prefix, drafts must not.
func ReadPage(path string, collection Collection) (*Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, blogerr.PageRead(path, err)
	}
	return ParsePage(path, collection, raw), nil
}

// ParsePage builds a Page from raw file bytes. Parsing is deliberately
// lenient: a missing or broken front matter block is recorded on the Page
// for lint, not returned as an error.
func ParsePage(path string, collection Collection, raw []byte) *Page {
	p := &Page{Path: path, Collection: collection}

	fm, body, had, style, err := Split(raw)
	p.Style = style
	switch {
	case err != nil:
		p.FrontMatterErr = err
		p.Body = raw
	case !had:
		p.Body = body
	default:
		p.HasFrontMatter = true
		p.Body = body
		p.BodyOffset = 2 + bytes.Count(fm, []byte("\n"))
		fields, perr := ParseFrontMatter(fm)
		if perr != nil {
			p.FrontMatterErr = blogerr.FrontMatterInvalid(path, perr)
		} else {
			p.FrontMatter = fields
		}
	}

	name := filepath.Base(path)
	if collection == CollectionPost {
		if pf, perr := ParsePostFilename(name); perr == nil {
			p.Date = pf.Date
			p.Slug = pf.Slug
		}
		return p
	}

	// Drafts are undated by convention; a date prefix is suspicious but
	// the slug behind it is still the page's identity.
	if pf, perr := ParsePostFilename(name); perr == nil {
		p.DatedDraft = true
		p.Slug = pf.Slug
		p.Date = pf.Date
		return p
	}
	p.Slug = trimMarkdownExt(name)
	return p
}

func trimMarkdownExt(name string) string {
	ext := filepath.Ext(name)
	if ext == ".md" || ext == ".markdown" {
		return name[:len(name)-len(ext)]
	}
	return name
}

// IsMarkdownFile reports whether the filename looks like blog content.
func IsMarkdownFile(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".md" || ext == ".markdown"
}
