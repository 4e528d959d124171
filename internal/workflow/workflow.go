// Package workflow drives the editorial lifecycle: creating drafts,
// publishing them as dated posts, and pulling posts back into drafts.
// Every step keeps the configuration's key families in sync with the
// content tree, and all writes are atomic. When a step needs two files
// changed, the content file is written before the configuration: an
// interruption then leaves a state lint can point at instead of a
// configuration key referencing a file that never landed.
package workflow

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Manager performs editorial operations on one blog repository.
type Manager struct {
	root string
	cfg  *siteconfig.Config
}

// NewManager creates a workflow manager for the blog at root.
func NewManager(root string, cfg *siteconfig.Config) *Manager {
	return &Manager{root: root, cfg: cfg}
}

// DraftResult describes a created draft.
type DraftResult struct {
	Slug   string
	Suffix string
	Path   string // draft file path, relative to the root
}

// NewDraft creates `_drafts/<slug>.md` with a front matter header and
// registers the TITLE-* and ART-* keys for it.
func (m *Manager) NewDraft(title string) (*DraftResult, error) {
	slug := content.Slugify(title)
	if slug == "" {
		return nil, blogerr.New(blogerr.CategoryWorkflow, blogerr.SeverityFatal, "title produces an empty slug").
			WithContext("title", title)
	}

	rel := filepath.Join(content.DraftsDir, slug+".md")
	draftPath := filepath.Join(m.root, rel)
	if _, err := os.Stat(draftPath); err == nil {
		return nil, blogerr.DraftExists(slug)
	}
	if _, _, ferr := m.findPost(slug); ferr == nil {
		return nil, blogerr.New(blogerr.CategoryWorkflow, blogerr.SeverityFatal, "a published post already uses this slug").
			WithContext("slug", slug)
	}

	header := map[string]any{
		"layout": "post",
		"title":  title,
	}
	if err := m.writePage(draftPath, header, nil, content.Style{Newline: "\n"}); err != nil {
		return nil, err
	}

	suffix := DeriveSuffix(slug, m.cfg)
	m.cfg.SetTitle(suffix, title)
	m.cfg.SetArticlePath(suffix, permalink(slug, time.Time{}))
	if err := m.saveConfig(); err != nil {
		return nil, err
	}

	slog.Info("Draft created", logfields.Page(rel), logfields.Suffix(suffix))
	return &DraftResult{Slug: slug, Suffix: suffix, Path: rel}, nil
}

// ErrorCounter reports lint errors scoped to one file; the publish step
// uses it as its gate.
type ErrorCounter interface {
	FileErrorCount(path string) int
}

// PublishResult describes a published post.
type PublishResult struct {
	Slug   string
	Suffix string
	Path   string // post file path, relative to the root
	Date   time.Time
}

// Publish moves a draft into `_posts/` under a dated filename, stamps the
// date into its front matter, and rewrites the article's ART-* path to the
// dated permalink. A draft with lint errors is refused unless force is set;
// pass a nil gate to skip the check entirely.
func (m *Manager) Publish(slug string, date time.Time, gate ErrorCounter, force bool) (*PublishResult, error) {
	draftRel := filepath.Join(content.DraftsDir, slug+".md")
	draftPath := filepath.Join(m.root, draftRel)
	raw, err := os.ReadFile(draftPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blogerr.DraftNotFound(slug)
		}
		return nil, blogerr.PageRead(draftPath, err)
	}

	if gate != nil && !force {
		if n := gate.FileErrorCount(draftRel); n > 0 {
			return nil, blogerr.PublishBlocked(slug, n)
		}
	}

	if date.IsZero() {
		date = time.Now()
	}

	page := content.ParsePage(draftRel, content.CollectionDraft, raw)
	if page.FrontMatterErr != nil {
		return nil, blogerr.FrontMatterInvalid(draftRel, page.FrontMatterErr)
	}

	header := page.FrontMatter
	if header == nil {
		header = map[string]any{}
	}
	header["date"] = date.Format("2006-01-02")

	postName := content.PostFilename{Date: date, Slug: slug}.String()
	postRel := filepath.Join(content.PostsDir, postName)
	postPath := filepath.Join(m.root, postRel)
	if _, statErr := os.Stat(postPath); statErr == nil {
		return nil, blogerr.New(blogerr.CategoryWorkflow, blogerr.SeverityFatal, "post file already exists").
			WithContext("path", postRel)
	}

	if err := m.writePage(postPath, header, page.Body, page.Style); err != nil {
		return nil, err
	}
	if err := os.Remove(draftPath); err != nil {
		return nil, blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "remove draft after publish").
			WithContext("path", draftRel)
	}

	suffix, found := FindSuffix(m.cfg, slug)
	if !found {
		suffix = DeriveSuffix(slug, m.cfg)
		if title := page.Title(); title != "" && !m.cfg.Titles.Has(suffix) {
			m.cfg.SetTitle(suffix, title)
		}
	}
	m.cfg.SetArticlePath(suffix, permalink(slug, date))
	if err := m.saveConfig(); err != nil {
		return nil, err
	}

	slog.Info("Draft published",
		logfields.Page(postRel),
		logfields.Suffix(suffix),
		slog.String("date", date.Format("2006-01-02")))
	return &PublishResult{Slug: slug, Suffix: suffix, Path: postRel, Date: date}, nil
}

// Unpublish reverses a publish: the post moves back to `_drafts/`, the
// date comes off the front matter, and the ART-* path drops its date.
func (m *Manager) Unpublish(slug string) (*DraftResult, error) {
	postPath, postRel, err := m.findPost(slug)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(postPath)
	if err != nil {
		return nil, blogerr.PageRead(postRel, err)
	}
	page := content.ParsePage(postRel, content.CollectionPost, raw)
	if page.FrontMatterErr != nil {
		return nil, blogerr.FrontMatterInvalid(postRel, page.FrontMatterErr)
	}

	header := page.FrontMatter
	delete(header, "date")

	draftRel := filepath.Join(content.DraftsDir, slug+".md")
	draftPath := filepath.Join(m.root, draftRel)
	if _, statErr := os.Stat(draftPath); statErr == nil {
		return nil, blogerr.DraftExists(slug)
	}

	if err := m.writePage(draftPath, header, page.Body, page.Style); err != nil {
		return nil, err
	}
	if err := os.Remove(postPath); err != nil {
		return nil, blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "remove post after unpublish").
			WithContext("path", postRel)
	}

	suffix, found := FindSuffix(m.cfg, slug)
	if found {
		m.cfg.SetArticlePath(suffix, permalink(slug, time.Time{}))
		if err := m.saveConfig(); err != nil {
			return nil, err
		}
	}

	slog.Info("Post unpublished", logfields.Page(draftRel), logfields.Suffix(suffix))
	return &DraftResult{Slug: slug, Suffix: suffix, Path: draftRel}, nil
}

// permalink builds the site path for an article. Published posts carry
// the year and month; drafts get the undated form.
func permalink(slug string, date time.Time) string {
	if date.IsZero() {
		return fmt.Sprintf("/blog/%s/", slug)
	}
	return fmt.Sprintf("/blog/%s/%s/", date.Format("2006/01"), slug)
}

func (m *Manager) writePage(path string, header map[string]any, body []byte, style content.Style) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "create content directory").
			WithContext("path", filepath.Dir(path))
	}

	fm, err := content.SerializeFrontMatter(header, style)
	if err != nil {
		return blogerr.Wrap(err, blogerr.CategoryContent, blogerr.SeverityFatal, "serialize front matter").
			WithContext("path", path)
	}
	if len(body) == 0 {
		body = []byte(style.Newline)
		if style.Newline == "" {
			body = []byte("\n")
		}
	}
	data := content.Join(fm, body, true, style)

	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "write content file").
			WithContext("path", path)
	}
	return nil
}

func (m *Manager) saveConfig() error {
	path := m.cfg.Path
	if path == "" {
		path = filepath.Join(m.root, siteconfig.StandardFilename)
	}
	return m.cfg.Save(path)
}

func (m *Manager) findPost(slug string) (path, rel string, err error) {
	postsDir := filepath.Join(m.root, content.PostsDir)
	entries, err := os.ReadDir(postsDir)
	if err != nil {
		return "", "", blogerr.PostNotFound(slug)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if pf, perr := content.ParsePostFilename(e.Name()); perr == nil && pf.Slug == slug {
			rel = filepath.Join(content.PostsDir, e.Name())
			return filepath.Join(m.root, rel), rel, nil
		}
	}
	return "", "", blogerr.PostNotFound(slug)
}
