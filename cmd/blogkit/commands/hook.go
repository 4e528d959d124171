package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/gitrepo"
)

// HookCmd groups git hook management.
type HookCmd struct {
	Install HookInstallCmd `cmd:"" help:"Install a pre-commit hook that lints staged content"`
}

// HookInstallCmd implements 'hook install'.
type HookInstallCmd struct{}

// Run executes the hook install command.
func (cmd *HookInstallCmd) Run(_ *Global, root *CLI) error {
	dir, err := root.ResolveRoot()
	if err != nil {
		return err
	}

	repo, err := gitrepo.Open(dir)
	if err != nil {
		return fmt.Errorf("not in a git repository: %w", err)
	}

	path, err := repo.InstallHook()
	if err != nil {
		return err
	}

	fmt.Printf("Installed pre-commit hook at %s\n", path)
	return nil
}
