package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/blogkit/internal/ledger"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	N int `short:"n" default:"20" help:"Number of runs to show"`
}

// Run executes the history command.
func (cmd *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, dir, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.N < 1 {
		return fmt.Errorf("-n must be at least 1")
	}

	dbPath := filepath.Join(dir, cfg.Blogkit.Watch.DataDirectory(), "ledger.db")
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No lint runs recorded yet (the ledger is written by 'blogkit watch').")
		return nil
	}

	store, err := ledger.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Recent(context.Background(), cmd.N)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No lint runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTRIGGER\tFILES\tERRORS\tWARNINGS\tINFOS\tRUN")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%.8s\n",
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Trigger, run.Files, run.Errors, run.Warnings, run.Infos, run.ID)
	}
	return w.Flush()
}
