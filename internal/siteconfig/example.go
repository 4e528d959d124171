package siteconfig

import "gopkg.in/yaml.v3"

// Example builds a starter configuration for `blogkit init`: the site
// metadata block, a kramdown section, and one sample article entry across
// the key families. Comments are attached to the node tree so the written
// file reads like a hand-maintained `_config.yml`.
func Example(siteName, author string) *Config {
	if siteName == "" {
		siteName = "A new blog"
	}

	c := emptyConfig()
	root := c.ensureRoot()

	pair := func(key, value string) *yaml.Node {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		root.Content = append(root.Content, k, scalarNode(value))
		return k
	}

	k := pair(KeyName, siteName)
	k.HeadComment = "Site metadata"
	c.Name = siteName
	if author != "" {
		pair(KeyAuthor, author)
		c.Author = author
	}
	pair(KeyMarkdown, DefaultMarkdown)
	pair(KeyHighlighter, DefaultHighlighter)
	pair(KeyTimezone, "UTC")
	c.Timezone = "UTC"
	pair(KeyCoding, DefaultCoding)

	kramKey := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: KeyKramdown}
	kramKey.HeadComment = "Options passed through to the Markdown processor"
	kram := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	kramPair := func(key, value string) {
		kram.Content = append(kram.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			scalarNode(value))
	}
	kramPair("input", DefaultKramdownInput)
	kramPair("smart_quotes", "lsquo,rsquo,ldquo,rdquo")
	kramPair("syntax_highlighter", DefaultHighlighter)
	root.Content = append(root.Content, kramKey, kram)
	c.Kramdown = Kramdown{
		Input:             DefaultKramdownInput,
		SmartQuotes:       "lsquo,rsquo,ldquo,rdquo",
		SyntaxHighlighter: DefaultHighlighter,
		present:           true,
	}

	k = pair(TitlePrefix+"HELLO", "Hello, world")
	k.HeadComment = "Article titles"
	c.Titles.set("HELLO", "Hello, world")

	k = pair(ArticlePrefix+"HELLO", "/blog/hello-world/")
	k.HeadComment = "Article URL paths (same suffix = same article)"
	c.Articles.set("HELLO", "/blog/hello-world/")

	ApplyDefaults(c)
	return c
}
