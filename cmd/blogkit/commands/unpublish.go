package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogkit/internal/workflow"
)

// UnpublishCmd implements the 'unpublish' command.
type UnpublishCmd struct {
	Slug string `arg:"" help:"Slug of the post to pull back into _drafts/"`
}

// Run executes the unpublish command.
func (cmd *UnpublishCmd) Run(_ *Global, root *CLI) error {
	cfg, dir, err := root.LoadConfig()
	if err != nil {
		return err
	}

	res, err := workflow.NewManager(dir, cfg).Unpublish(cmd.Slug)
	if err != nil {
		return err
	}

	fmt.Printf("Unpublished %s\n", res.Path)
	return nil
}
