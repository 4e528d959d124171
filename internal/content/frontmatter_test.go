package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndJoinRoundTrip(t *testing.T) {
	raw := []byte("---\ntitle: Easy wins\nlayout: post\n---\n\nBody text.\n")

	fm, body, had, style, err := Split(raw)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Easy wins\nlayout: post\n", string(fm))
	assert.Equal(t, "\nBody text.\n", string(body))
	assert.Equal(t, "\n", style.Newline)

	assert.Equal(t, raw, Join(fm, body, had, style))
}

func TestSplitNoFrontMatter(t *testing.T) {
	raw := []byte("Just a body.\n")

	fm, body, had, _, err := Split(raw)
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, fm)
	assert.Equal(t, raw, body)
}

func TestSplitMissingClosingDelimiter(t *testing.T) {
	_, _, _, _, err := Split([]byte("---\ntitle: Oops\n\nNo closer.\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitEmptyHeader(t *testing.T) {
	fm, body, had, _, err := Split([]byte("---\n---\nBody.\n"))
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, fm)
	assert.Equal(t, "Body.\n", string(body))
}

func TestSplitCRLF(t *testing.T) {
	raw := []byte("---\r\ntitle: Windows\r\n---\r\nBody.\r\n")

	fm, body, had, style, err := Split(raw)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "\r\n", style.Newline)
	assert.Equal(t, "title: Windows\r\n", string(fm))
	assert.Equal(t, "Body.\r\n", string(body))
	assert.Equal(t, raw, Join(fm, body, had, style))
}

func TestSerializeFrontMatterKeyOrder(t *testing.T) {
	fields := map[string]any{
		"tags":   []string{"go", "perf"},
		"title":  "Easy wins",
		"layout": "post",
		"date":   "2026-08-30",
	}

	out, err := SerializeFrontMatter(fields, Style{Newline: "\n"})
	require.NoError(t, err)

	// layout/title/date lead; the rest follows sorted.
	s := string(out)
	layoutAt := strings.Index(s, "layout:")
	titleAt := strings.Index(s, "title:")
	dateAt := strings.Index(s, "date:")
	tagsAt := strings.Index(s, "tags:")
	require.NotEqual(t, -1, layoutAt)
	assert.Less(t, layoutAt, titleAt)
	assert.Less(t, titleAt, dateAt)
	assert.Less(t, dateAt, tagsAt)

	parsed, err := ParseFrontMatter(out)
	require.NoError(t, err)
	assert.Equal(t, "Easy wins", parsed["title"])
	assert.Equal(t, "2026-08-30", parsed["date"])
}

func TestSerializeFrontMatterEmpty(t *testing.T) {
	out, err := SerializeFrontMatter(nil, Style{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseFrontMatterInvalidYAML(t *testing.T) {
	_, err := ParseFrontMatter([]byte("title: [unclosed\n"))
	require.Error(t, err)
}
