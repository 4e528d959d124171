package content

import (
	"fmt"
	"strings"
	"time"
)

// PostFilename is the parsed form of a `YYYY-MM-DD-slug.md` post filename.
type PostFilename struct {
	Date time.Time
	Slug string
	Ext  string
}

// String renders the canonical filename.
func (p PostFilename) String() string {
	ext := p.Ext
	if ext == "" {
		ext = ".md"
	}
	return fmt.Sprintf("%s-%s%s", p.Date.Format("2006-01-02"), p.Slug, ext)
}

// ParsePostFilename parses a post filename. The date must be a real
// calendar date: `2024-02-30-oops.md` is rejected, not normalized.
func ParsePostFilename(name string) (PostFilename, error) {
	base := name
	ext := ""
	if i := strings.LastIndex(base, "."); i > 0 {
		ext = base[i:]
		base = base[:i]
	}
	if ext != ".md" && ext != ".markdown" {
		return PostFilename{}, fmt.Errorf("%q is not a markdown filename", name)
	}

	if len(base) < len("2006-01-02-x") {
		return PostFilename{}, fmt.Errorf("%q does not match YYYY-MM-DD-slug", name)
	}
	datePart, slug := base[:10], base[11:]
	if base[10] != '-' || slug == "" {
		return PostFilename{}, fmt.Errorf("%q does not match YYYY-MM-DD-slug", name)
	}

	// time.Parse rejects impossible dates like 2024-02-30 outright.
	date, err := time.Parse("2006-01-02", datePart)
	if err != nil {
		return PostFilename{}, fmt.Errorf("%q has an invalid date: %w", name, err)
	}

	return PostFilename{Date: date, Slug: slug, Ext: ext}, nil
}
