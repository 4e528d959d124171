package workflow

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

func newRoot(t *testing.T, configYAML string) (string, *Manager) {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, siteconfig.StandardFilename)
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))
	cfg, err := siteconfig.Load(path)
	require.NoError(t, err)
	return root, NewManager(root, cfg)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

const baseConfig = `name: Test Blog
url: https://blog.example.com
`

func TestNewDraft(t *testing.T) {
	root, m := newRoot(t, baseConfig)

	res, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)
	assert.Equal(t, "easy-wins", res.Slug)
	assert.Equal(t, "EW", res.Suffix)
	assert.Equal(t, filepath.Join("_drafts", "easy-wins.md"), res.Path)

	raw := readFile(t, filepath.Join(root, res.Path))
	assert.Contains(t, raw, "layout: post")
	assert.Contains(t, raw, "title: Easy Wins")
	assert.True(t, strings.HasPrefix(raw, "---\n"))

	cfg, err := siteconfig.Load(filepath.Join(root, siteconfig.StandardFilename))
	require.NoError(t, err)
	title, ok := cfg.Titles.Get("EW")
	require.True(t, ok)
	assert.Equal(t, "Easy Wins", title)
	path, ok := cfg.Articles.Get("EW")
	require.True(t, ok)
	assert.Equal(t, "/blog/easy-wins/", path)
}

func TestNewDraftRejectsDuplicate(t *testing.T) {
	_, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)

	_, err = m.NewDraft("Easy Wins")
	require.Error(t, err)
	var be *blogerr.BlogkitError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, blogerr.CategoryWorkflow, be.Category)
}

func TestNewDraftRejectsEmptySlug(t *testing.T) {
	_, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("!!!")
	require.Error(t, err)
}

func TestNewDraftSuffixCollision(t *testing.T) {
	root, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)
	res, err := m.NewDraft("Early Warnings")
	require.NoError(t, err)
	assert.Equal(t, "EW2", res.Suffix)

	cfg, err := siteconfig.Load(filepath.Join(root, siteconfig.StandardFilename))
	require.NoError(t, err)
	assert.True(t, cfg.Titles.Has("EW"))
	assert.True(t, cfg.Titles.Has("EW2"))
}

type staticGate map[string]int

func (g staticGate) FileErrorCount(path string) int { return g[path] }

func TestPublish(t *testing.T) {
	root, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)

	date := time.Date(2024, 3, 17, 12, 0, 0, 0, time.UTC)
	res, err := m.Publish("easy-wins", date, nil, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("_posts", "2024-03-17-easy-wins.md"), res.Path)
	assert.Equal(t, "EW", res.Suffix)

	// Draft is gone, post exists with a stamped date.
	assert.NoFileExists(t, filepath.Join(root, "_drafts", "easy-wins.md"))
	raw := readFile(t, filepath.Join(root, res.Path))
	assert.Contains(t, raw, "date: \"2024-03-17\"")

	cfg, err := siteconfig.Load(filepath.Join(root, siteconfig.StandardFilename))
	require.NoError(t, err)
	path, ok := cfg.Articles.Get("EW")
	require.True(t, ok)
	assert.Equal(t, "/blog/2024/03/easy-wins/", path)
}

func TestPublishMissingDraft(t *testing.T) {
	_, m := newRoot(t, baseConfig)

	_, err := m.Publish("nope", time.Time{}, nil, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "draft not found")
}

func TestPublishBlockedByLintErrors(t *testing.T) {
	_, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)

	gate := staticGate{filepath.Join("_drafts", "easy-wins.md"): 2}
	_, err = m.Publish("easy-wins", time.Time{}, gate, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lint errors")

	// Force overrides the gate.
	_, err = m.Publish("easy-wins", time.Time{}, gate, true)
	require.NoError(t, err)
}

func TestPublishPreservesBody(t *testing.T) {
	root, m := newRoot(t, baseConfig)

	draft := filepath.Join(root, content.DraftsDir, "easy-wins.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(draft), 0o755))
	body := "---\nlayout: post\ntitle: Easy Wins\n---\n\nSome **bold** text.\n"
	require.NoError(t, os.WriteFile(draft, []byte(body), 0o644))

	res, err := m.Publish("easy-wins", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), nil, false)
	require.NoError(t, err)

	raw := readFile(t, filepath.Join(root, res.Path))
	assert.Contains(t, raw, "Some **bold** text.")
}

func TestUnpublish(t *testing.T) {
	root, m := newRoot(t, baseConfig)

	_, err := m.NewDraft("Easy Wins")
	require.NoError(t, err)
	_, err = m.Publish("easy-wins", time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), nil, false)
	require.NoError(t, err)

	res, err := m.Unpublish("easy-wins")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("_drafts", "easy-wins.md"), res.Path)

	assert.NoFileExists(t, filepath.Join(root, "_posts", "2024-03-17-easy-wins.md"))
	raw := readFile(t, filepath.Join(root, res.Path))
	assert.NotContains(t, raw, "date:")

	cfg, err := siteconfig.Load(filepath.Join(root, siteconfig.StandardFilename))
	require.NoError(t, err)
	path, ok := cfg.Articles.Get("EW")
	require.True(t, ok)
	assert.Equal(t, "/blog/easy-wins/", path)
}

func TestUnpublishMissingPost(t *testing.T) {
	_, m := newRoot(t, baseConfig)

	_, err := m.Unpublish("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "post not found")
}
