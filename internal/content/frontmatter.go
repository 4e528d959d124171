package content

import (
	"bytes"
	"errors"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the file started with a front matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// Style captures the newline shape of a file so rewrites stay stable.
//
// It intentionally covers only newline/trailing-newline shape; YAML
// formatting inside the header is normalized on serialize.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// Split separates the `---` delimited YAML front matter from the markdown
// body. If the file does not start with a delimiter, had is false and body
// is the full input.
func Split(raw []byte) (frontmatter, body []byte, had bool, style Style, err error) {
	style = detectStyle(raw)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(raw, open) {
		return nil, raw, false, style, nil
	}

	start := len(open)
	if bytes.HasPrefix(raw[start:], open) {
		// Empty header: `---` immediately followed by `---`.
		return []byte{}, raw[start+len(open):], true, style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(raw[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, style, ErrMissingClosingDelimiter
	}

	fmEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return raw[start:fmEnd], raw[bodyStart:], true, style, nil
}

// Join reassembles a file from raw front matter and body. When had is
// false the body is returned as-is.
func Join(frontmatter, body []byte, had bool, style Style) []byte {
	if !had {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseFrontMatter parses raw header YAML (without delimiters) into a map.
func ParseFrontMatter(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// SerializeFrontMatter renders a header map as YAML bytes (no delimiters).
//
// Keys listed in leading come first in that order when present; remaining
// keys follow sorted, so `layout`/`title`/`date` stay where blog authors
// expect them while output stays deterministic.
func SerializeFrontMatter(fields map[string]any, style Style) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	node, err := headerNode(fields)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if nl != "\n" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte(nl))
	}
	return out, nil
}

// leadingHeaderKeys is the conventional header order for blog posts.
var leadingHeaderKeys = []string{"layout", "title", "date"}

func headerNode(fields map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(fields))
	leading := make(map[string]bool, len(leadingHeaderKeys))
	for _, k := range leadingHeaderKeys {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			leading[k] = true
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if !leading[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		valNode, err := valueNode(fields[k])
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			valNode)
	}
	return n, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch vv := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: vv}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(vv)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(vv)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(vv, 10)}, nil
	case map[string]any:
		return headerNode(vv)
	case []any:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			node, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, node)
		}
		return seq, nil
	case []string:
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range vv {
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: item})
		}
		return seq, nil
	default:
		// Round-trip uncommon scalar types through yaml's own encoding.
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, err
		}
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, err
		}
		if len(node.Content) == 0 {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
		}
		return node.Content[0], nil
	}
}

func detectStyle(raw []byte) Style {
	newline := "\n"
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if raw[i] == '\n' {
			break
		}
	}
	return Style{
		Newline:            newline,
		HasTrailingNewline: len(raw) > 0 && raw[len(raw)-1] == '\n',
	}
}
