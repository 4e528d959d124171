package content

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Discover walks `_drafts/` and `_posts/` under the blog root and loads
// every markdown file. Hidden files, non-markdown files, and nested
// directories starting with `_` or `.` are skipped. The returned order is
// deterministic: drafts sorted by name, then posts by date then name.
func Discover(root string) ([]*Page, error) {
	var pages []*Page

	for _, collection := range []Collection{CollectionDraft, CollectionPost} {
		dir := filepath.Join(root, collection.Dir())
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		var batch []*Page
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && (d.Name()[0] == '.' || d.Name()[0] == '_') {
					return fs.SkipDir
				}
				return nil
			}
			if d.Name()[0] == '.' || !IsMarkdownFile(d.Name()) {
				return nil
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			page, readErr := ReadPage(path, collection)
			if readErr != nil {
				return readErr
			}
			page.Path = rel
			batch = append(batch, page)
			return nil
		})
		if err != nil {
			return nil, err
		}

		sortPages(batch, collection)
		pages = append(pages, batch...)
	}

	slog.Debug("Discovered content files", logfields.Count(len(pages)), logfields.Path(root))
	return pages, nil
}

func sortPages(pages []*Page, collection Collection) {
	sort.Slice(pages, func(i, j int) bool {
		if collection == CollectionPost && !pages[i].Date.Equal(pages[j].Date) {
			return pages[i].Date.Before(pages[j].Date)
		}
		return pages[i].Name() < pages[j].Name()
	})
}

// FindDraft returns the draft page with the given slug.
func FindDraft(pages []*Page, slug string) (*Page, bool) {
	for _, p := range pages {
		if p.Collection == CollectionDraft && p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}

// FindPost returns the post page with the given slug.
func FindPost(pages []*Page, slug string) (*Page, bool) {
	for _, p := range pages {
		if p.Collection == CollectionPost && p.Slug == slug {
			return p, true
		}
	}
	return nil, false
}
