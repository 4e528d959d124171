package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogkit/internal/content"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite an existing configuration file"`
	Name   string `help:"Site name for the new configuration" placeholder:"NAME"`
	Author string `help:"Author for the new configuration" placeholder:"AUTHOR"`
}

// Run executes the init command.
func (cmd *InitCmd) Run(_ *Global, root *CLI) error {
	dir, err := root.ResolveRoot()
	if err != nil {
		return err
	}

	path := root.Config
	if path == "" {
		path = filepath.Join(dir, siteconfig.StandardFilename)
	}
	if _, err := os.Stat(path); err == nil && !cmd.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := siteconfig.Example(cmd.Name, cmd.Author)
	if err := cfg.Save(path); err != nil {
		return err
	}

	for _, d := range []string{content.DraftsDir, content.PostsDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized %s with %s/ and %s/\n", path, content.DraftsDir, content.PostsDir)
	return nil
}
