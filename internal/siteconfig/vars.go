package siteconfig

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// SiteVar is one resolvable site variable, as the external tool's
// `{{ site.NAME }}` substitution would see it.
type SiteVar struct {
	Name    string
	Value   string
	Line    int
	Scalar  bool // false for mapping/sequence values (they exist but have no scalar form)
	Default bool // true when supplied by a default, not the file
}

// Var resolves a site variable by its `_config.yml` name: scalars, family
// keys, dotted `kramdown.x` paths, and any other key present in the file.
// The boolean reports existence; non-scalar values resolve with an empty
// string value.
func (c *Config) Var(name string) (string, bool) {
	if f := c.familyFor(name); f != nil {
		return f.Get(strings.TrimPrefix(name, f.Prefix))
	}

	switch name {
	case KeyName:
		return c.Name, c.declared(KeyName)
	case KeyAuthor:
		return c.Author, c.declared(KeyAuthor)
	case KeyTimezone:
		return c.Timezone, c.declared(KeyTimezone)
	case KeyMarkdown:
		return c.Markdown, true // always defaulted
	case KeyHighlighter:
		return c.Highlighter, true
	case KeyCoding:
		return c.Coding, true
	}

	if rest, ok := strings.CutPrefix(name, KeyKramdown+"."); ok && c.Kramdown.Present() {
		switch rest {
		case "input":
			return c.Kramdown.Input, true
		case "smart_quotes":
			return c.Kramdown.SmartQuotes, c.declared("kramdown.smart_quotes")
		case "syntax_highlighter":
			return c.Kramdown.SyntaxHighlighter, c.declared("kramdown.syntax_highlighter")
		}
	}

	if n := c.lookupNode(name); n != nil {
		v, _ := scalarValue(n)
		return v, true
	}
	return "", false
}

// Exists reports whether a site variable resolves at all, scalar or not.
func (c *Config) Exists(name string) bool {
	_, ok := c.Var(name)
	return ok
}

// Vars returns every resolvable site variable in file order, with defaults
// for absent defaulted scalars appended at the end.
func (c *Config) Vars() []SiteVar {
	var out []SiteVar
	declared := make(map[string]bool)

	if root := c.rootMapping(); root != nil {
		out = append(out, flattenVars("", root)...)
		for _, v := range out {
			declared[v.Name] = true
		}
	}

	appendDefault := func(name, value string) {
		if !declared[name] && value != "" {
			out = append(out, SiteVar{Name: name, Value: value, Scalar: true, Default: true})
		}
	}
	appendDefault(KeyMarkdown, c.Markdown)
	appendDefault(KeyHighlighter, c.Highlighter)
	appendDefault(KeyCoding, c.Coding)
	if c.Kramdown.Present() {
		appendDefault(KeyKramdown+".input", c.Kramdown.Input)
	}

	return out
}

// flattenVars walks a mapping node depth-first, emitting dotted names for
// nested mappings and a non-scalar marker for sequences.
func flattenVars(prefix string, mapping *yaml.Node) []SiteVar {
	var out []SiteVar
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		k := mapping.Content[i]
		v := mapping.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		name := k.Value
		if prefix != "" {
			name = prefix + "." + name
		}
		switch v.Kind {
		case yaml.MappingNode:
			out = append(out, flattenVars(name, v)...)
		case yaml.ScalarNode:
			sv, _ := scalarValue(v)
			out = append(out, SiteVar{Name: name, Value: sv, Line: k.Line, Scalar: true})
		default:
			out = append(out, SiteVar{Name: name, Line: k.Line})
		}
	}
	return out
}

// lookupNode resolves a possibly dotted name against the retained document.
func (c *Config) lookupNode(name string) *yaml.Node {
	node := c.rootMapping()
	if node == nil {
		return nil
	}
	for _, part := range strings.Split(name, ".") {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == part {
				next = node.Content[i+1]
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

func (c *Config) declared(key string) bool {
	return c.lines[key] != 0
}

func (c *Config) rootMapping() *yaml.Node {
	if c.doc == nil || len(c.doc.Content) == 0 {
		return nil
	}
	root := c.doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil
	}
	return root
}
