package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/site"
)

// buildSite writes the given files under a temp root and loads the site.
func buildSite(t *testing.T, files map[string]string) *site.Site {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	s, err := site.Load(root)
	require.NoError(t, err)
	return s
}

func issuesByRule(issues []Issue, rule string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Rule == rule {
			out = append(out, i)
		}
	}
	return out
}

func TestTitlePairingRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": `name: Blog
TITLE-OK: Paired fine
ART-OK: /blog/ok/
TITLE-NOPATH: Title without path
ART-NOTITLE: /blog/no-title/
REPO-ORPHAN: https://github.com/example/orphan
`,
	})

	issues := (&TitlePairingRule{}).Check(s)
	require.Len(t, issues, 3)

	var errs, warns int
	for _, i := range issues {
		switch i.Severity {
		case SeverityError:
			errs++
			assert.Equal(t, "_config.yml", i.FilePath)
			assert.NotZero(t, i.Line)
		case SeverityWarning:
			warns++
			assert.Contains(t, i.Message, "REPO-ORPHAN")
		}
	}
	assert.Equal(t, 2, errs)
	assert.Equal(t, 1, warns)
}

func TestTitlePairingRuleCleanSite(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "TITLE-A: A\nART-A: /a/\nREPO-A: https://github.com/x/a\n",
	})
	assert.Empty(t, (&TitlePairingRule{}).Check(s))
}

func TestDuplicateKeyRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "name: First\nauthor: Me\nname: Second\n",
	})

	issues := (&DuplicateKeyRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Equal(t, 3, issues[0].Line)
	assert.Contains(t, issues[0].Message, `"name"`)
	// Last value wins.
	assert.Equal(t, "Second", s.Config.Name)
}

func TestSettingValuesRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": `markdown: textile
ART-BAD: no-leading-slash
REPO-BAD: ftp://example.com/repo
name:
  - not
  - scalar
`,
	})

	issues := (&SettingValuesRule{}).Check(s)

	var structural, values int
	for _, i := range issues {
		if i.Severity == SeverityError {
			structural++
		} else {
			values++
		}
	}
	// `name` as a sequence is a shape error.
	assert.Equal(t, 1, structural)
	// markdown enum, ART path, REPO scheme.
	assert.Equal(t, 3, values)
}

func TestUnknownSettingRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "name: Blog\npaginate: 10\n",
	})

	issues := (&UnknownSettingRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "paginate")
}

func TestFrontMatterRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml":           "name: Blog\n",
		"_drafts/good.md":       "---\ntitle: Fine\n---\nbody\n",
		"_drafts/bare.md":       "no header at all\n",
		"_drafts/untitled.md":   "---\nlayout: post\n---\nbody\n",
		"_drafts/broken.md":     "---\ntitle: [oops\n---\nbody\n",
	})

	issues := (&FrontMatterRule{}).Check(s)
	require.Len(t, issues, 3)

	byFile := make(map[string]Issue)
	for _, i := range issues {
		byFile[filepath.Base(i.FilePath)] = i
	}
	assert.Equal(t, SeverityWarning, byFile["bare.md"].Severity)
	assert.Equal(t, SeverityWarning, byFile["untitled.md"].Severity)
	assert.Equal(t, SeverityError, byFile["broken.md"].Severity)
}

func TestPostFilenameRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml":                "name: Blog\n",
		"_posts/2026-08-30-good.md":  "ok\n",
		"_posts/not-dated.md":        "bad\n",
		"_drafts/2026-01-01-soon.md": "dated draft\n",
	})

	issues := (&PostFilenameRule{}).Check(s)
	require.Len(t, issues, 2)

	byFile := make(map[string]Issue)
	for _, i := range issues {
		byFile[filepath.Base(i.FilePath)] = i
	}
	assert.Equal(t, SeverityError, byFile["not-dated.md"].Severity)
	assert.Equal(t, SeverityWarning, byFile["2026-01-01-soon.md"].Severity)
}

func TestUnresolvedReferenceRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "name: Blog\nTITLE-E1: Easy wins\nART-E1: /blog/easy-wins/\n",
		"_drafts/a.md": "---\ntitle: A\n---\n" +
			"Good: {{ site.ART-E1 }} and {{ site.name }}.\n" +
			"Bad: {{ site.ART-E2 }}.\n",
	})

	issues := (&UnresolvedReferenceRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "site.ART-E2")
	assert.Equal(t, 5, issues[0].Line)
}

func TestUnreferencedArticleRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": `name: Blog
TITLE-USED: Used
ART-USED: /blog/used/
TITLE-POST: Matches a post
ART-POST: /blog/2026/shipped/
TITLE-DEAD: Nothing points here
ART-DEAD: /blog/dead/
`,
		"_drafts/a.md":                 "Link: {{ site.ART-USED }}\n",
		"_posts/2026-08-01-shipped.md": "post\n",
	})

	issues := (&UnreferencedArticleRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityInfo, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "ART-DEAD")
}

func TestInternalLinkRule(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml":      "name: Blog\nTITLE-E1: Easy wins\nART-E1: /blog/easy-wins/\n",
		"assets/demux.png": "png\n",
		"_drafts/a.md": "---\ntitle: A\n---\n" +
			"[ok article](/blog/easy-wins/)\n" +
			"[ok no slash](/blog/easy-wins#measuring)\n" +
			"[ok file](/assets/demux.png)\n" +
			"[external](https://example.com/)\n" +
			"[dead](/blog/missing/)\n",
	})

	issues := (&InternalLinkRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "/blog/missing/")
}

func TestInternalLinkRuleSamePageAnchors(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "name: Blog\n",
		"_drafts/a.md": "---\ntitle: A\n---\n" +
			"## Measuring First\n\n" +
			"[ok](#measuring-first)\n" +
			"[dead](#conclusions)\n",
	})

	issues := (&InternalLinkRule{}).Check(s)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "#conclusions")
}

func TestLinterRunDisableAndQuiet(t *testing.T) {
	files := map[string]string{
		"_config.yml": "name: Blog\nTITLE-X: Orphan title\npaginate: 5\n",
	}

	s := buildSite(t, files)

	full := NewLinter(nil).Run(s)
	assert.True(t, full.HasErrors())
	assert.NotEmpty(t, issuesByRule(full.Issues, "unknown-setting"))
	assert.Equal(t, 1, full.FilesTotal)

	disabled := NewLinter(&Config{Disabled: []string{"title-pairing", "unknown-setting"}}).Run(s)
	assert.Empty(t, issuesByRule(disabled.Issues, "title-pairing"))
	assert.Empty(t, issuesByRule(disabled.Issues, "unknown-setting"))

	quiet := NewLinter(&Config{Quiet: true}).Run(s)
	for _, i := range quiet.Issues {
		assert.Equal(t, SeverityError, i.Severity)
	}
}

func TestLinterDisabledViaSiteSettings(t *testing.T) {
	s := buildSite(t, map[string]string{
		"_config.yml": "name: Blog\nTITLE-X: Orphan\nblogkit:\n  lint:\n    disable:\n      - title-pairing\n",
	})

	l := NewLinter(&Config{Disabled: s.Config.Blogkit.Lint.Disable})
	result := l.Run(s)
	assert.Empty(t, issuesByRule(result.Issues, "title-pairing"))
	assert.NotContains(t, l.Rules(), "title-pairing")
}
