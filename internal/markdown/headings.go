package markdown

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractHeadings parses a page body and returns its headings with
// GitHub-style anchor IDs. Duplicate anchors get -1, -2 ordinals the way
// rendered pages deduplicate them.
func ExtractHeadings(body []byte) []Heading {
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var headings []Heading
	seen := make(map[string]int)

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		txt := nodeText(h, body)
		anchor := AnchorID(txt)
		if ord, dup := seen[anchor]; dup {
			seen[anchor] = ord + 1
			anchor = fmt.Sprintf("%s-%d", anchor, ord)
		} else {
			seen[anchor] = 1
		}

		headings = append(headings, Heading{Level: h.Level, Text: txt, Anchor: anchor})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// AnchorID computes the GitHub-style anchor for a heading text: lowercase,
// punctuation dropped, spaces and hyphens kept as hyphens.
func AnchorID(heading string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// nodeText flattens the inline text content of a node.
func nodeText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(source))
		case *gmast.CodeSpan:
			for child := t.FirstChild(); child != nil; child = child.NextSibling() {
				if txt, ok := child.(*gmast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}
