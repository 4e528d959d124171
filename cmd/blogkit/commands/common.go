package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogkit/internal/gitrepo"
	"git.home.luguber.info/inful/blogkit/internal/site"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags - used by commands that need access to root config.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: auto-discover _config.yml)" placeholder:"PATH"`
	Root    string           `help:"Blog repository root (default: enclosing git worktree, else the current directory)" placeholder:"DIR"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Lint      LintCmd      `cmd:"" help:"Check the site's configuration and content integrity"`
	Init      InitCmd      `cmd:"" help:"Scaffold a _config.yml with _drafts/ and _posts/ directories"`
	New       NewCmd       `cmd:"" help:"Create a draft and register its configuration keys"`
	Publish   PublishCmd   `cmd:"" help:"Move a draft into _posts/ under a dated filename"`
	Unpublish UnpublishCmd `cmd:"" help:"Pull a post back into _drafts/"`
	Vars      VarsCmd      `cmd:"" help:"List or resolve site variables"`
	Links     LinksCmd     `cmd:"" help:"Verify external links once and report"`
	Watch     WatchCmd     `cmd:"" help:"Run the watch daemon: re-lint on change, sweep links, serve status"`
	History   HistoryCmd   `cmd:"" help:"Show recent lint runs from the ledger"`
	Hook      HookCmd      `cmd:"" help:"Manage the git pre-commit hook"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// ResolveRoot determines the blog root: the --root flag, the enclosing
// git worktree, or the current directory.
func (c *CLI) ResolveRoot() (string, error) {
	if c.Root != "" {
		return filepath.Abs(c.Root)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	root, _ := gitrepo.FindRoot(cwd)
	return root, nil
}

// LoadSite loads the blog at the resolved root, honoring --config.
func (c *CLI) LoadSite() (*site.Site, error) {
	root, err := c.ResolveRoot()
	if err != nil {
		return nil, err
	}
	if c.Config != "" {
		return site.LoadWithConfig(root, c.Config)
	}
	return site.Load(root)
}

// LoadConfig loads just the configuration, for commands that do not need
// the content tree.
func (c *CLI) LoadConfig() (*siteconfig.Config, string, error) {
	root, err := c.ResolveRoot()
	if err != nil {
		return nil, "", err
	}
	path := c.Config
	if path == "" {
		path, err = siteconfig.Locate(root)
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := siteconfig.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}
