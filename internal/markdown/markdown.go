// Package markdown provides goldmark-based analysis of page bodies: link
// extraction for integrity checks and heading extraction for fragment
// verification. It never renders anything; the external generator owns
// markdown-to-HTML.
package markdown

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

// Link is one link-like construct found in a page body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// Heading is one heading with its GitHub-style anchor ID.
type Heading struct {
	Level  int
	Text   string
	Anchor string
}
