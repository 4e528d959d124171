// Package liquid scans article text for the `{{ site.KEY }}` variable
// references the external generator substitutes at build time. blogkit
// never substitutes anything itself; references are extracted so lint can
// check each one against the loaded configuration.
//
// The scanner is textual, not a template engine. It understands just
// enough Liquid to be accurate about what the generator would see:
// `{% raw %} ... {% endraw %}` regions are skipped, and trailing filter
// expressions (`{{ site.name | upcase }}`) are captured verbatim but not
// interpreted. References inside fenced code blocks are reported —
// Liquid runs before Markdown, so the generator substitutes there too.
package liquid

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Ref is one `{{ site.X }}` occurrence in a page body.
type Ref struct {
	// Name is the variable path after "site." (e.g. "ART-E1",
	// "kramdown.input").
	Name string

	// Filters is the raw filter chain after the first `|`, trimmed,
	// empty when the reference has none.
	Filters string

	// Raw is the full matched text including braces.
	Raw string

	// Line and Column are 1-based, Column counted in bytes.
	Line   int
	Column int
}

// Resolved pairs a reference with the configuration value it resolves to.
type Resolved struct {
	Ref   Ref
	Value string
}

var (
	refPattern = regexp.MustCompile(`\{\{-?\s*site\.([A-Za-z0-9_.-]+)\s*(\|[^}]*)?-?\}\}`)
	rawOpen    = regexp.MustCompile(`\{%-?\s*raw\s*-?%\}`)
	rawClose   = regexp.MustCompile(`\{%-?\s*endraw\s*-?%\}`)
)

// Scan returns every site-variable reference in the body, in order.
func Scan(body []byte) []Ref {
	text := string(body)
	masked := maskRawRegions(text)

	var refs []Ref
	for _, m := range refPattern.FindAllStringSubmatchIndex(masked, -1) {
		start := m[0]
		raw := text[m[0]:m[1]]
		name := text[m[2]:m[3]]

		filters := ""
		if m[4] >= 0 {
			filters = strings.TrimSpace(strings.TrimPrefix(text[m[4]:m[5]], "|"))
			filters = strings.TrimSpace(strings.TrimSuffix(filters, "-"))
		}

		line, col := position(text, start)
		refs = append(refs, Ref{
			Name:    name,
			Filters: filters,
			Raw:     raw,
			Line:    line,
			Column:  col,
		})
	}
	return refs
}

// Resolve partitions references by whether the configuration satisfies
// them. Duplicate references to the same variable are kept; a page that
// uses a broken variable three times has three problems.
func Resolve(refs []Ref, cfg *siteconfig.Config) (resolved []Resolved, unresolved []Ref) {
	for _, r := range refs {
		if value, ok := cfg.Var(r.Name); ok {
			resolved = append(resolved, Resolved{Ref: r, Value: value})
		} else {
			unresolved = append(unresolved, r)
		}
	}
	return resolved, unresolved
}

// maskRawRegions blanks out {% raw %}..{% endraw %} spans so the reference
// pattern cannot match inside them. Offsets are preserved: the mask
// replaces bytes one for one.
func maskRawRegions(text string) string {
	var b []byte
	rest := text
	base := 0
	for {
		open := rawOpen.FindStringIndex(rest)
		if open == nil {
			break
		}
		closeRel := rawClose.FindStringIndex(rest[open[1]:])
		end := len(rest)
		if closeRel != nil {
			end = open[1] + closeRel[1]
		}
		if b == nil {
			b = []byte(text)
		}
		for i := base + open[0]; i < base+end; i++ {
			if b[i] != '\n' {
				b[i] = ' '
			}
		}
		base += end
		rest = rest[end:]
	}
	if b == nil {
		return text
	}
	return string(b)
}

func position(text string, offset int) (line, col int) {
	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if text[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
