// Package siteconfig models the blog's `_config.yml`: the site metadata
// scalars, the kramdown processor options, and the three flat key families
// (`TITLE-*`, `ART-*`, `REPO-*`) that map article identifiers to titles,
// site paths, and source-repository URLs.
//
// The file is decoded through the yaml.v3 node tree rather than straight
// struct tags so that top-level key order, per-key line numbers, duplicate
// keys, and unknown keys all survive a load/save round trip. The node tree
// is retained: programmatic edits (publishing workflow, init scaffolding)
// are surgical node operations, which keeps the author's comments and
// formatting intact for everything blogkit did not touch.
package siteconfig

import (
	"sort"

	"gopkg.in/yaml.v3"
)

// StandardFilename is the configuration file name Jekyll-style blogs use.
const StandardFilename = "_config.yml"

// Key family prefixes. Keys are flat at the top level of the file; the
// suffix after the prefix identifies the logical article, and the same
// suffix across families refers to the same article.
const (
	TitlePrefix   = "TITLE-"
	ArticlePrefix = "ART-"
	RepoPrefix    = "REPO-"
)

// SettingsKey is the top-level key blogkit's own settings ride under,
// the way Jekyll plugins keep their configuration in the site file.
const SettingsKey = "blogkit"

// Scalar site metadata key names the external generator understands.
const (
	KeyName        = "name"
	KeyAuthor      = "author"
	KeyMarkdown    = "markdown"
	KeyHighlighter = "highlighter"
	KeyTimezone    = "timezone"
	KeyCoding      = "coding"
	KeyKramdown    = "kramdown"
)

// Config is the typed view of `_config.yml` plus the retained document node.
type Config struct {
	// Site metadata scalars.
	Name        string
	Author      string
	Markdown    string
	Highlighter string
	Timezone    string
	Coding      string

	// Kramdown options passed through to the external Markdown processor.
	Kramdown Kramdown

	// Key families, in file order.
	Titles   *KeyFamily
	Articles *KeyFamily
	Repos    *KeyFamily

	// Blogkit holds the tool's own settings from the `blogkit` section.
	Blogkit Settings

	// Unknown lists top-level keys outside the known schema. They are kept
	// verbatim in the document and re-emitted on save.
	Unknown []UnknownKey

	// Duplicates records repeated top-level keys (last occurrence wins).
	Duplicates []DuplicateKey

	// Problems records structural shape violations found while decoding
	// (non-scalar value for a scalar key, empty family suffix, ...).
	// Validate() appends value-level problems to the same shape.
	Problems []Problem

	// Path is the file the config was loaded from (empty for synthesized configs).
	Path string

	// Checksum is a hex sha256 of the raw bytes, for change detection.
	Checksum string

	doc   *yaml.Node // retained document; nil until parsed or first edit
	lines map[string]int
}

// UnknownKey is a retained top-level key outside the known schema.
type UnknownKey struct {
	Key  string
	Line int
}

// DuplicateKey records a repeated top-level key.
type DuplicateKey struct {
	Key       string
	FirstLine int
	Line      int
}

// Problem is a key-scoped complaint about the configuration's shape or values.
type Problem struct {
	Key    string
	Line   int
	Reason string
}

// Kramdown mirrors the nested `kramdown` sub-mapping. Unrecognized subkeys
// are retained in the document but not modeled.
type Kramdown struct {
	Input             string
	SmartQuotes       string
	SyntaxHighlighter string

	present bool
}

// Present reports whether the config file carries a kramdown section at all.
func (k Kramdown) Present() bool { return k.present }

// KeyFamily holds one prefixed key family in file order.
type KeyFamily struct {
	Prefix string

	suffixes []string
	values   map[string]string
	lines    map[string]int
}

func newKeyFamily(prefix string) *KeyFamily {
	return &KeyFamily{
		Prefix: prefix,
		values: make(map[string]string),
		lines:  make(map[string]int),
	}
}

// add records a decoded key. It reports false when the suffix already exists
// (the new value overwrites the old one, matching YAML last-wins behavior).
func (f *KeyFamily) add(suffix, value string, line int) bool {
	if _, dup := f.values[suffix]; dup {
		f.values[suffix] = value
		return false
	}
	f.suffixes = append(f.suffixes, suffix)
	f.values[suffix] = value
	f.lines[suffix] = line
	return true
}

// set upserts a value, appending the suffix when new.
func (f *KeyFamily) set(suffix, value string) {
	if _, ok := f.values[suffix]; !ok {
		f.suffixes = append(f.suffixes, suffix)
	}
	f.values[suffix] = value
}

// Get returns the value for a suffix.
func (f *KeyFamily) Get(suffix string) (string, bool) {
	v, ok := f.values[suffix]
	return v, ok
}

// Has reports whether the suffix exists in the family.
func (f *KeyFamily) Has(suffix string) bool {
	_, ok := f.values[suffix]
	return ok
}

// Line returns the 1-based line the suffix was declared on (0 if unknown).
func (f *KeyFamily) Line(suffix string) int { return f.lines[suffix] }

// Key returns the full top-level key for a suffix (e.g. "ART-E1").
func (f *KeyFamily) Key(suffix string) string { return f.Prefix + suffix }

// Suffixes returns the suffixes in file order.
func (f *KeyFamily) Suffixes() []string {
	out := make([]string, len(f.suffixes))
	copy(out, f.suffixes)
	return out
}

// Len returns the number of keys in the family.
func (f *KeyFamily) Len() int { return len(f.suffixes) }

// ArticleEntry is the per-suffix join of the three families. Pairing is a
// naming convention, not a load-time invariant; lint enforces it.
type ArticleEntry struct {
	Suffix string

	Title string
	Path  string
	Repo  string

	HasTitle bool
	HasPath  bool
	HasRepo  bool

	TitleLine int
	PathLine  int
	RepoLine  int
}

// Complete reports whether the entry satisfies the title/path pairing convention.
func (e ArticleEntry) Complete() bool { return e.HasTitle && e.HasPath }

// Entries joins the key families by suffix, in first-seen file order.
func (c *Config) Entries() []ArticleEntry {
	seen := make(map[string]int)
	var out []ArticleEntry

	collect := func(f *KeyFamily, assign func(e *ArticleEntry, value string, line int)) {
		for _, s := range f.suffixes {
			idx, ok := seen[s]
			if !ok {
				out = append(out, ArticleEntry{Suffix: s})
				idx = len(out) - 1
				seen[s] = idx
			}
			assign(&out[idx], f.values[s], f.lines[s])
		}
	}

	collect(c.Titles, func(e *ArticleEntry, v string, l int) {
		e.Title, e.HasTitle, e.TitleLine = v, true, l
	})
	collect(c.Articles, func(e *ArticleEntry, v string, l int) {
		e.Path, e.HasPath, e.PathLine = v, true, l
	})
	collect(c.Repos, func(e *ArticleEntry, v string, l int) {
		e.Repo, e.HasRepo, e.RepoLine = v, true, l
	})

	return out
}

// Entry returns the joined entry for one suffix.
func (c *Config) Entry(suffix string) (ArticleEntry, bool) {
	e := ArticleEntry{Suffix: suffix}
	if v, ok := c.Titles.Get(suffix); ok {
		e.Title, e.HasTitle, e.TitleLine = v, true, c.Titles.Line(suffix)
	}
	if v, ok := c.Articles.Get(suffix); ok {
		e.Path, e.HasPath, e.PathLine = v, true, c.Articles.Line(suffix)
	}
	if v, ok := c.Repos.Get(suffix); ok {
		e.Repo, e.HasRepo, e.RepoLine = v, true, c.Repos.Line(suffix)
	}
	return e, e.HasTitle || e.HasPath || e.HasRepo
}

// Line returns the line a top-level key was declared on (0 if absent).
func (c *Config) Line(key string) int {
	if c.lines == nil {
		return 0
	}
	return c.lines[key]
}

// Suffixes returns the union of all family suffixes, sorted.
func (c *Config) Suffixes() []string {
	set := make(map[string]struct{})
	for _, f := range []*KeyFamily{c.Titles, c.Articles, c.Repos} {
		for _, s := range f.suffixes {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func emptyConfig() *Config {
	return &Config{
		Titles:   newKeyFamily(TitlePrefix),
		Articles: newKeyFamily(ArticlePrefix),
		Repos:    newKeyFamily(RepoPrefix),
		lines:    make(map[string]int),
	}
}
