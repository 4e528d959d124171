package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogkit/internal/linkcheck"
)

// LinksCmd implements the 'links' command: a one-shot external link
// sweep, independent of the daemon schedule.
type LinksCmd struct {
	Timeout     string `help:"Per-request timeout override (e.g. 5s)" placeholder:"DURATION"`
	Concurrency int    `help:"Maximum concurrent requests override" placeholder:"N"`
}

// Run executes the links command.
func (cmd *LinksCmd) Run(_ *Global, root *CLI) error {
	s, err := root.LoadSite()
	if err != nil {
		return err
	}

	// Running the command is an explicit request; the enabled flag only
	// gates the implicit checks in lint and the daemon.
	settings := s.Config.Blogkit.LinkCheck
	if cmd.Timeout != "" {
		settings.Timeout = cmd.Timeout
	}
	if cmd.Concurrency > 0 {
		settings.Concurrency = cmd.Concurrency
	}

	checker, err := linkcheck.NewChecker(settings)
	if err != nil {
		return err
	}
	defer func() { _ = checker.Close() }()

	outcomes := checker.Run(context.Background(), s)
	if len(outcomes) == 0 {
		fmt.Println("No external links found.")
		return nil
	}

	var warnings, errors int
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, out := range outcomes {
		detail := out.Detail
		if out.Cached {
			detail += " (cached)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", out.State, out.URL, detail)
		switch out.State {
		case linkcheck.StateWarning:
			warnings++
		case linkcheck.StateError:
			errors++
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d link(s) checked: %d broken, %d warning(s)\n", len(outcomes), errors, warnings)

	if errors > 0 {
		os.Exit(2)
	} else if warnings > 0 {
		os.Exit(1)
	}
	return nil
}
