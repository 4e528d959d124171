package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

func configWith(t *testing.T, yaml string) *siteconfig.Config {
	t.Helper()
	cfg, err := siteconfig.Parse([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func TestDeriveSuffixInitials(t *testing.T) {
	cfg := configWith(t, "name: Blog\n")

	assert.Equal(t, "EW", DeriveSuffix("easy-wins", cfg))
	assert.Equal(t, "H", DeriveSuffix("hello", cfg))
	assert.Equal(t, "GWP", DeriveSuffix("go-worker-pools", cfg))
}

func TestDeriveSuffixCollision(t *testing.T) {
	cfg := configWith(t, "TITLE-EW: Easy Wins\nART-EW: /blog/easy-wins/\n")

	assert.Equal(t, "EW2", DeriveSuffix("early-warnings", cfg))

	cfg.SetTitle("EW2", "Early Warnings")
	assert.Equal(t, "EW3", DeriveSuffix("elder-wand", cfg))
}

func TestDeriveSuffixChecksAllFamilies(t *testing.T) {
	// A suffix used only by a REPO key is still taken.
	cfg := configWith(t, "REPO-EW: https://example.com/x\n")

	assert.Equal(t, "EW2", DeriveSuffix("easy-wins", cfg))
}

func TestFindSuffix(t *testing.T) {
	cfg := configWith(t, `TITLE-EW: Easy Wins
ART-EW: /blog/2024/03/easy-wins/
TITLE-H: Hello
ART-H: /blog/hello/
`)

	suffix, ok := FindSuffix(cfg, "easy-wins")
	require.True(t, ok)
	assert.Equal(t, "EW", suffix)

	suffix, ok = FindSuffix(cfg, "hello")
	require.True(t, ok)
	assert.Equal(t, "H", suffix)

	_, ok = FindSuffix(cfg, "unknown-slug")
	assert.False(t, ok)
}
