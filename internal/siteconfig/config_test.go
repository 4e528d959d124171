package siteconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `name: Program optimisation notes
author: A. Writer
markdown: kramdown
highlighter: rouge
timezone: Europe/Oslo
coding: utf-8

kramdown:
  input: GFM
  smart_quotes: lsquo,rsquo,ldquo,rdquo
  syntax_highlighter: rouge

TITLE-E1: Easy wins in program optimisation
ART-E1: /blog/easy-wins/
REPO-E1: https://github.com/example/demux

TITLE-RT: Regression testing for performance work
ART-RT: /blog/regression-testing/
`

func TestParseSampleConfig(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "Program optimisation notes", cfg.Name)
	assert.Equal(t, "A. Writer", cfg.Author)
	assert.Equal(t, "Europe/Oslo", cfg.Timezone)

	assert.True(t, cfg.Kramdown.Present())
	assert.Equal(t, "GFM", cfg.Kramdown.Input)
	assert.Equal(t, "lsquo,rsquo,ldquo,rdquo", cfg.Kramdown.SmartQuotes)

	assert.Equal(t, []string{"E1", "RT"}, cfg.Titles.Suffixes())
	assert.Equal(t, []string{"E1", "RT"}, cfg.Articles.Suffixes())
	assert.Equal(t, []string{"E1"}, cfg.Repos.Suffixes())

	path, ok := cfg.Articles.Get("E1")
	require.True(t, ok)
	assert.Equal(t, "/blog/easy-wins/", path)

	// Line numbers survive for lint.
	assert.Equal(t, 13, cfg.Titles.Line("E1"))
	assert.Equal(t, 1, cfg.Line("name"))

	assert.Empty(t, cfg.Unknown)
	assert.Empty(t, cfg.Duplicates)
	assert.Empty(t, cfg.Problems)
}

func TestParseEmptyFile(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultMarkdown, cfg.Markdown)
	assert.Equal(t, DefaultHighlighter, cfg.Highlighter)
	assert.Equal(t, DefaultCoding, cfg.Coding)
	assert.False(t, cfg.Kramdown.Present())
	assert.Empty(t, Validate(cfg))
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	cfg, err := Parse([]byte("ART-E1: /first/\nname: Blog\nART-E1: /second/\n"))
	require.NoError(t, err)

	require.Len(t, cfg.Duplicates, 1)
	assert.Equal(t, "ART-E1", cfg.Duplicates[0].Key)
	assert.Equal(t, 1, cfg.Duplicates[0].FirstLine)
	assert.Equal(t, 3, cfg.Duplicates[0].Line)

	v, _ := cfg.Articles.Get("E1")
	assert.Equal(t, "/second/", v)
	assert.Equal(t, 1, cfg.Articles.Len())
}

func TestParseUnknownAndProblems(t *testing.T) {
	cfg, err := Parse([]byte("paginate: 10\nTITLE-: empty suffix\nname:\n  - a\n  - b\n"))
	require.NoError(t, err)

	require.Len(t, cfg.Unknown, 1)
	assert.Equal(t, "paginate", cfg.Unknown[0].Key)

	require.Len(t, cfg.Problems, 2)
	assert.Equal(t, "TITLE-", cfg.Problems[0].Key)
	assert.Equal(t, "name", cfg.Problems[1].Key)
}

func TestParseNonMappingTopLevelFails(t *testing.T) {
	_, err := Parse([]byte("- just\n- a\n- list\n"))
	require.Error(t, err)
}

func TestParseInvalidYAMLFails(t *testing.T) {
	_, err := Parse([]byte("name: [unclosed\n"))
	require.Error(t, err)
}

func TestParseBlogkitSettings(t *testing.T) {
	cfg, err := Parse([]byte(`blogkit:
  lint:
    disable:
      - unknown-setting
  link_check:
    timeout: 5s
    concurrency: 3
  watch:
    addr: ":9000"
`))
	require.NoError(t, err)

	assert.True(t, cfg.Blogkit.Lint.Disabled("unknown-setting"))
	assert.False(t, cfg.Blogkit.Lint.Disabled("title-pairing"))
	assert.Equal(t, 3, cfg.Blogkit.LinkCheck.MaxConcurrent())
	assert.Equal(t, ":9000", cfg.Blogkit.Watch.ListenAddr())
}

func TestEntriesJoinOrder(t *testing.T) {
	cfg, err := Parse([]byte("ART-B: /b/\nTITLE-A: A\nART-A: /a/\nTITLE-B: B\nREPO-A: https://github.com/x/a\n"))
	require.NoError(t, err)

	entries := cfg.Entries()
	require.Len(t, entries, 2)

	// First-seen order: B appeared before A.
	assert.Equal(t, "B", entries[0].Suffix)
	assert.True(t, entries[0].Complete())
	assert.False(t, entries[0].HasRepo)

	assert.Equal(t, "A", entries[1].Suffix)
	assert.Equal(t, "https://github.com/x/a", entries[1].Repo)
}

func TestEntryIncomplete(t *testing.T) {
	cfg, err := Parse([]byte("TITLE-X: Only a title\n"))
	require.NoError(t, err)

	e, ok := cfg.Entry("X")
	require.True(t, ok)
	assert.True(t, e.HasTitle)
	assert.False(t, e.Complete())

	_, ok = cfg.Entry("MISSING")
	assert.False(t, ok)
}

func TestVarLookup(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	ApplyDefaults(cfg)

	tests := []struct {
		name  string
		want  string
		found bool
	}{
		{"name", "Program optimisation notes", true},
		{"ART-E1", "/blog/easy-wins/", true},
		{"TITLE-RT", "Regression testing for performance work", true},
		{"kramdown.input", "GFM", true},
		{"kramdown.smart_quotes", "lsquo,rsquo,ldquo,rdquo", true},
		{"markdown", "kramdown", true},
		{"ART-NOPE", "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		got, ok := cfg.Var(tt.name)
		assert.Equal(t, tt.found, ok, "Var(%q) existence", tt.name)
		assert.Equal(t, tt.want, got, "Var(%q) value", tt.name)
	}
}

func TestVarsEnumeration(t *testing.T) {
	cfg, err := Parse([]byte("name: Blog\nTITLE-E1: T\n"))
	require.NoError(t, err)
	ApplyDefaults(cfg)

	vars := cfg.Vars()
	byName := make(map[string]SiteVar)
	for _, v := range vars {
		byName[v.Name] = v
	}

	assert.Equal(t, "Blog", byName["name"].Value)
	assert.False(t, byName["name"].Default)
	assert.Equal(t, "T", byName["TITLE-E1"].Value)

	// Absent defaulted scalars are appended and flagged.
	md, ok := byName["markdown"]
	require.True(t, ok)
	assert.Equal(t, DefaultMarkdown, md.Value)
	assert.True(t, md.Default)
}

func TestValidateTimezoneAndEnums(t *testing.T) {
	cfg, err := Parse([]byte("markdown: asciidoc\nhighlighter: prism\ntimezone: Mars/Olympus\n"))
	require.NoError(t, err)

	problems := Validate(cfg)
	keys := make([]string, 0, len(problems))
	for _, p := range problems {
		keys = append(keys, p.Key)
	}
	assert.ElementsMatch(t, []string{"markdown", "highlighter", "timezone"}, keys)
}

func TestValidateSmartQuotes(t *testing.T) {
	cfg, err := Parse([]byte("kramdown:\n  smart_quotes: lsquo,rsquo\n"))
	require.NoError(t, err)
	problems := Validate(cfg)
	require.Len(t, problems, 1)
	assert.Equal(t, "kramdown.smart_quotes", problems[0].Key)
}

func TestLoadExpandsEnvAndChecksum(t *testing.T) {
	t.Setenv("BLOG_AUTHOR", "From Env")
	dir := t.TempDir()
	path := filepath.Join(dir, StandardFilename)
	require.NoError(t, os.WriteFile(path, []byte("name: Blog\nauthor: ${BLOG_AUTHOR}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Author)
	assert.Equal(t, path, cfg.Path)
	assert.Len(t, cfg.Checksum, 64)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), StandardFilename))
	require.Error(t, err)
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	_, err := Locate(dir)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, StandardFilename), []byte("name: x\n"), 0o644))
	path, err := Locate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, StandardFilename), path)
}
