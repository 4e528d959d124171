package workflow

import (
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// DeriveSuffix builds a short config-key suffix for a new article: the
// uppercase initials of the slug words, with a numeric ordinal appended on
// collision ("easy-wins" -> "EW", then "EW2", "EW3", ...).
func DeriveSuffix(slug string, cfg *siteconfig.Config) string {
	base := initials(slug)
	if base == "" {
		base = "A"
	}
	if !suffixTaken(cfg, base) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !suffixTaken(cfg, candidate) {
			return candidate
		}
	}
}

func initials(slug string) string {
	var b strings.Builder
	for _, word := range strings.Split(slug, "-") {
		for _, r := range word {
			if r >= 'a' && r <= 'z' {
				b.WriteRune(r - 'a' + 'A')
			} else if r >= '0' && r <= '9' {
				b.WriteRune(r)
			} else {
				continue
			}
			break
		}
	}
	return b.String()
}

func suffixTaken(cfg *siteconfig.Config, suffix string) bool {
	return cfg.Titles.Has(suffix) || cfg.Articles.Has(suffix) || cfg.Repos.Has(suffix)
}

// FindSuffix locates the config suffix for a slug by matching the slug
// against registered article paths. The second return is false when no
// entry points at the slug.
func FindSuffix(cfg *siteconfig.Config, slug string) (string, bool) {
	if slug == "" {
		return "", false
	}
	for _, suffix := range cfg.Articles.Suffixes() {
		path, _ := cfg.Articles.Get(suffix)
		if pathContainsSlug(path, slug) {
			return suffix, true
		}
	}
	return "", false
}

func pathContainsSlug(path, slug string) bool {
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == slug {
			return true
		}
	}
	return false
}
