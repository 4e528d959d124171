// Package site loads a blog repository wholesale: the `_config.yml`
// configuration plus every draft and post. A loaded Site is the unit the
// linter, the workflow, and the daemon operate on.
package site

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Site is a fully loaded blog repository.
type Site struct {
	Root   string
	Config *siteconfig.Config
	Pages  []*content.Page
}

// Load reads the configuration and discovers all content under root.
func Load(root string) (*Site, error) {
	configPath, err := siteconfig.Locate(root)
	if err != nil {
		return nil, err
	}
	return LoadWithConfig(root, configPath)
}

// LoadWithConfig loads a site using an explicit configuration file path.
func LoadWithConfig(root, configPath string) (*Site, error) {
	cfg, err := siteconfig.Load(configPath)
	if err != nil {
		return nil, err
	}

	pages, err := content.Discover(root)
	if err != nil {
		return nil, err
	}

	slog.Debug("Site loaded",
		logfields.Path(root),
		logfields.Count(len(pages)),
		slog.Int("articles", len(cfg.Entries())))

	return &Site{Root: root, Config: cfg, Pages: pages}, nil
}

// ConfigPath returns the path of the loaded configuration file, relative
// to the site root when possible.
func (s *Site) ConfigPath() string {
	if s.Config == nil || s.Config.Path == "" {
		return siteconfig.StandardFilename
	}
	if rel, err := filepath.Rel(s.Root, s.Config.Path); err == nil && !filepath.IsAbs(rel) && rel[0] != '.' {
		return rel
	}
	return s.Config.Path
}

// Drafts returns the draft pages in discovery order.
func (s *Site) Drafts() []*content.Page {
	return s.byCollection(content.CollectionDraft)
}

// Posts returns the post pages in discovery order.
func (s *Site) Posts() []*content.Page {
	return s.byCollection(content.CollectionPost)
}

func (s *Site) byCollection(c content.Collection) []*content.Page {
	var out []*content.Page
	for _, p := range s.Pages {
		if p.Collection == c {
			out = append(out, p)
		}
	}
	return out
}
