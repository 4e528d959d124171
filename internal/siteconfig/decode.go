package siteconfig

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
)

// Locate finds the configuration file under a blog root. It accepts the
// canonical `_config.yml` and the `.yaml` spelling.
func Locate(root string) (string, error) {
	for _, name := range []string{StandardFilename, "_config.yaml"} {
		p := filepath.Join(root, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", blogerr.ConfigNotFound(filepath.Join(root, StandardFilename))
}

// Load reads, expands, and decodes a configuration file, then applies
// defaults. `${VAR}` environment references in the file are expanded the
// same way the docs pipeline expands its configs; a `.env` next to the
// config contributes to the environment first.
func Load(path string) (*Config, error) {
	loadDotenv(filepath.Dir(path))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, blogerr.ConfigNotFound(path)
		}
		return nil, blogerr.Wrap(err, blogerr.CategoryConfig, blogerr.SeverityFatal, "failed to read config file").WithContext("path", path)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	cfg, err := Parse(expanded)
	if err != nil {
		return nil, blogerr.ConfigDecode(path, err)
	}

	cfg.Path = path
	sum := sha256.Sum256(data)
	cfg.Checksum = hex.EncodeToString(sum[:])
	ApplyDefaults(cfg)
	return cfg, nil
}

// Parse decodes configuration bytes through the yaml.v3 node tree.
//
// Shape violations (non-scalar values for scalar keys, empty family
// suffixes) and duplicate top-level keys do not abort the parse; they are
// recorded on the Config so lint can point at them with line numbers.
// Only YAML syntax errors and a non-mapping top level are fatal.
func Parse(data []byte) (*Config, error) {
	cfg := emptyConfig()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		// Empty file: a valid, empty site configuration.
		return cfg, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top level of %s must be a mapping, got %s", StandardFilename, nodeKind(root))
	}
	cfg.doc = &doc

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			cfg.Problems = append(cfg.Problems, Problem{
				Key:    "",
				Line:   keyNode.Line,
				Reason: "non-scalar mapping key",
			})
			continue
		}
		key := keyNode.Value

		if first, dup := cfg.lines[key]; dup {
			cfg.Duplicates = append(cfg.Duplicates, DuplicateKey{Key: key, FirstLine: first, Line: keyNode.Line})
		} else {
			cfg.lines[key] = keyNode.Line
		}

		if err := cfg.decodeTopLevel(key, keyNode, valNode); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) decodeTopLevel(key string, keyNode, valNode *yaml.Node) error {
	switch key {
	case KeyName:
		c.Name = c.scalarOrProblem(key, valNode)
	case KeyAuthor:
		c.Author = c.scalarOrProblem(key, valNode)
	case KeyMarkdown:
		c.Markdown = c.scalarOrProblem(key, valNode)
	case KeyHighlighter:
		c.Highlighter = c.scalarOrProblem(key, valNode)
	case KeyTimezone:
		c.Timezone = c.scalarOrProblem(key, valNode)
	case KeyCoding:
		c.Coding = c.scalarOrProblem(key, valNode)
	case KeyKramdown:
		c.decodeKramdown(valNode)
	case SettingsKey:
		if err := valNode.Decode(&c.Blogkit); err != nil {
			return fmt.Errorf("%s section: %w", SettingsKey, err)
		}
	default:
		if family := c.familyFor(key); family != nil {
			c.decodeFamilyKey(family, key, keyNode, valNode)
			return nil
		}
		c.Unknown = append(c.Unknown, UnknownKey{Key: key, Line: keyNode.Line})
	}
	return nil
}

func (c *Config) familyFor(key string) *KeyFamily {
	switch {
	case strings.HasPrefix(key, TitlePrefix):
		return c.Titles
	case strings.HasPrefix(key, ArticlePrefix):
		return c.Articles
	case strings.HasPrefix(key, RepoPrefix):
		return c.Repos
	}
	return nil
}

func (c *Config) decodeFamilyKey(family *KeyFamily, key string, keyNode, valNode *yaml.Node) {
	suffix := strings.TrimPrefix(key, family.Prefix)
	if suffix == "" {
		c.Problems = append(c.Problems, Problem{
			Key:    key,
			Line:   keyNode.Line,
			Reason: "key family prefix without an article suffix",
		})
		return
	}

	value, ok := scalarValue(valNode)
	if !ok {
		c.Problems = append(c.Problems, Problem{
			Key:    key,
			Line:   valNode.Line,
			Reason: fmt.Sprintf("expected a scalar string, got %s", nodeKind(valNode)),
		})
		value = ""
	}
	family.add(suffix, value, keyNode.Line)
}

func (c *Config) decodeKramdown(valNode *yaml.Node) {
	if valNode.Kind != yaml.MappingNode {
		c.Problems = append(c.Problems, Problem{
			Key:    KeyKramdown,
			Line:   valNode.Line,
			Reason: fmt.Sprintf("expected a mapping, got %s", nodeKind(valNode)),
		})
		return
	}
	c.Kramdown.present = true

	for i := 0; i+1 < len(valNode.Content); i += 2 {
		k := valNode.Content[i]
		v := valNode.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		full := KeyKramdown + "." + k.Value
		sv, ok := scalarValue(v)
		if !ok {
			c.Problems = append(c.Problems, Problem{
				Key:    full,
				Line:   v.Line,
				Reason: fmt.Sprintf("expected a scalar string, got %s", nodeKind(v)),
			})
			continue
		}
		switch k.Value {
		case "input":
			c.Kramdown.Input = sv
		case "smart_quotes":
			c.Kramdown.SmartQuotes = sv
		case "syntax_highlighter":
			c.Kramdown.SyntaxHighlighter = sv
		default:
			// Stays in the document; not modeled.
		}
		if _, seen := c.lines[full]; !seen {
			c.lines[full] = k.Line
		}
	}
}

func (c *Config) scalarOrProblem(key string, valNode *yaml.Node) string {
	v, ok := scalarValue(valNode)
	if !ok {
		c.Problems = append(c.Problems, Problem{
			Key:    key,
			Line:   valNode.Line,
			Reason: fmt.Sprintf("expected a scalar string, got %s", nodeKind(valNode)),
		})
		return ""
	}
	return v
}

func scalarValue(n *yaml.Node) (string, bool) {
	if n.Kind != yaml.ScalarNode {
		return "", false
	}
	if n.Tag == "!!null" {
		return "", true
	}
	return n.Value, true
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
