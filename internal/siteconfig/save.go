package siteconfig

import (
	"bytes"
	"strings"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogkit/internal/blogerr"
)

// SetTitle upserts a TITLE-* key. New suffixes are inserted at the end of
// the title block so the family stays grouped in the file.
func (c *Config) SetTitle(suffix, title string) {
	c.upsertFamily(c.Titles, suffix, title)
}

// SetArticlePath upserts an ART-* key.
func (c *Config) SetArticlePath(suffix, path string) {
	c.upsertFamily(c.Articles, suffix, path)
}

// SetRepo upserts a REPO-* key.
func (c *Config) SetRepo(suffix, url string) {
	c.upsertFamily(c.Repos, suffix, url)
}

// Encode renders the configuration document. Everything blogkit did not
// touch keeps the author's order, comments, and formatting because the
// loaded node tree is what gets marshalled.
func (c *Config) Encode() ([]byte, error) {
	root := c.rootMapping()
	if root == nil || len(root.Content) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c.doc); err != nil {
		_ = enc.Close()
		return nil, blogerr.InternalError("encode configuration", err)
	}
	if err := enc.Close(); err != nil {
		return nil, blogerr.InternalError("encode configuration", err)
	}
	return buf.Bytes(), nil
}

// Save atomically replaces the file at path with the encoded configuration.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return blogerr.Wrap(err, blogerr.CategoryFileSystem, blogerr.SeverityFatal, "write config file").WithContext("path", path)
	}
	c.Path = path
	return nil
}

func (c *Config) upsertFamily(family *KeyFamily, suffix, value string) {
	family.set(suffix, value)
	c.upsertDocKey(family.Key(suffix), value, family.Prefix)
}

// upsertDocKey updates a top-level key in the retained document, creating
// the document on first use. New keys land after the last key sharing
// groupPrefix, or at the end of the mapping when the group is empty.
func (c *Config) upsertDocKey(key, value, groupPrefix string) {
	root := c.ensureRoot()

	for i := 0; i+1 < len(root.Content); i += 2 {
		k := root.Content[i]
		if k.Kind == yaml.ScalarNode && k.Value == key {
			root.Content[i+1] = scalarNode(value)
			return
		}
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valNode := scalarNode(value)

	insertAt := len(root.Content)
	if groupPrefix != "" {
		for i := 0; i+1 < len(root.Content); i += 2 {
			k := root.Content[i]
			if k.Kind == yaml.ScalarNode && strings.HasPrefix(k.Value, groupPrefix) {
				insertAt = i + 2
			}
		}
	}

	root.Content = append(root.Content, nil, nil)
	copy(root.Content[insertAt+2:], root.Content[insertAt:])
	root.Content[insertAt] = keyNode
	root.Content[insertAt+1] = valNode
	// Line numbers for inserted keys stay 0 until the file is reloaded.
}

func (c *Config) ensureRoot() *yaml.Node {
	if root := c.rootMapping(); root != nil {
		return root
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	c.doc = &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	return root
}

// scalarNode builds a string scalar. The explicit !!str tag keeps values
// like "2024" or "yes" from round-tripping into non-string scalars.
func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
