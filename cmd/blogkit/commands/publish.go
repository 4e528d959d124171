package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/lint"
	"git.home.luguber.info/inful/blogkit/internal/workflow"
)

// PublishCmd implements the 'publish' command.
type PublishCmd struct {
	Slug  string `arg:"" help:"Slug of the draft to publish"`
	Date  string `help:"Publication date (YYYY-MM-DD, default today)" placeholder:"DATE"`
	Force bool   `help:"Publish even when the draft has lint errors"`
}

// Run executes the publish command.
func (cmd *PublishCmd) Run(_ *Global, root *CLI) error {
	var date time.Time
	if cmd.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", cmd.Date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", cmd.Date)
		}
	}

	s, err := root.LoadSite()
	if err != nil {
		return err
	}

	// Gate on the current lint state of the whole site; Publish only
	// consults the counts for the draft being moved.
	var gate workflow.ErrorCounter
	if !cmd.Force {
		linter := lint.NewLinter(&lint.Config{Disabled: s.Config.Blogkit.Lint.Disable})
		gate = linter.Run(s)
	}

	res, err := workflow.NewManager(s.Root, s.Config).Publish(cmd.Slug, date, gate, cmd.Force)
	if err != nil {
		return err
	}

	fmt.Printf("Published %s (dated %s)\n", res.Path, res.Date.Format("2006-01-02"))
	return nil
}
