package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/blogkit/internal/workflow"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title []string `arg:"" help:"Title of the new draft"`
}

// Run executes the new command.
func (cmd *NewCmd) Run(_ *Global, root *CLI) error {
	cfg, dir, err := root.LoadConfig()
	if err != nil {
		return err
	}

	res, err := workflow.NewManager(dir, cfg).NewDraft(strings.Join(cmd.Title, " "))
	if err != nil {
		return err
	}

	fmt.Printf("Created %s (suffix %s)\n", res.Path, res.Suffix)
	return nil
}
