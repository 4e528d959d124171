package linkcheck

import (
	"bytes"

	"golang.org/x/net/html"
)

// FragmentExists reports whether an HTML document contains an anchor for
// the given fragment: an element with a matching id attribute, or a
// legacy `<a name=...>` target.
func FragmentExists(body []byte, fragment string) (bool, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	return findAnchor(doc, fragment), nil
}

func findAnchor(n *html.Node, fragment string) bool {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == fragment {
				return true
			}
			if n.Data == "a" && attr.Key == "name" && attr.Val == fragment {
				return true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if findAnchor(c, fragment) {
			return true
		}
	}
	return false
}
