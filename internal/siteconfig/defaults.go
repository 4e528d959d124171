package siteconfig

// Default scalar values. They mirror what the external generator assumes
// when the keys are absent, so `Var` lookups and validation see the
// effective configuration, not just the written one.
const (
	DefaultMarkdown      = "kramdown"
	DefaultHighlighter   = "rouge"
	DefaultCoding        = "utf-8"
	DefaultKramdownInput = "GFM"
)

// ApplyDefaults fills absent scalars on the typed view. The retained
// document is not touched: defaults are effective configuration, not
// authored configuration, and Save must not invent keys the author
// never wrote.
func ApplyDefaults(c *Config) {
	if c.Markdown == "" {
		c.Markdown = DefaultMarkdown
	}
	if c.Highlighter == "" {
		c.Highlighter = DefaultHighlighter
	}
	if c.Coding == "" {
		c.Coding = DefaultCoding
	}
	if c.Kramdown.present && c.Kramdown.Input == "" {
		c.Kramdown.Input = DefaultKramdownInput
	}
}
