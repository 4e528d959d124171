package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogkit/internal/gitrepo"
	"git.home.luguber.info/inful/blogkit/internal/ledger"
	"git.home.luguber.info/inful/blogkit/internal/linkcheck"
	"git.home.luguber.info/inful/blogkit/internal/lint"
	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format  string `short:"f" default:"text" enum:"text,json" help:"Output format (text or json)"`
	Quiet   bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Staged  bool   `help:"Restrict the report to files staged in git (for the pre-commit hook)"`
	NoLinks bool   `name:"no-links" help:"Skip external link verification"`
}

// Run executes the lint command.
func (cmd *LintCmd) Run(_ *Global, root *CLI) error {
	started := time.Now()

	s, err := root.LoadSite()
	if err != nil {
		return err
	}

	linter := lint.NewLinter(&lint.Config{
		Quiet:    cmd.Quiet,
		Disabled: s.Config.Blogkit.Lint.Disable,
	})
	result := linter.Run(s)

	if !cmd.NoLinks && s.Config.Blogkit.LinkCheck.IsEnabled() {
		checker, err := linkcheck.NewChecker(s.Config.Blogkit.LinkCheck)
		if err != nil {
			return fmt.Errorf("link checker: %w", err)
		}
		outcomes := checker.Run(context.Background(), s)
		for _, issue := range linkcheck.Issues(outcomes) {
			if cmd.Quiet && issue.Severity != lint.SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
		_ = checker.Close()
	}

	// Record the full-site run before any staged narrowing.
	recordRun(s.Root, s.Config.Blogkit.Watch, started, time.Now(), result)

	if cmd.Staged {
		if result, err = filterStaged(result, s.Root); err != nil {
			return err
		}
	}

	formatter := lint.NewFormatter(cmd.Format)
	if err := formatter.Format(os.Stdout, result, s.Root); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Determine exit code based on results
	if result.HasErrors() {
		os.Exit(2) // Errors found (blocks commit)
	} else if result.HasWarnings() && !cmd.Quiet {
		os.Exit(1) // Warnings present
	}

	return nil
}

// recordRun appends a CLI-triggered run to the ledger. The ledger lives
// in the watch data directory; when that directory does not exist yet,
// plain lint invocations leave no state behind. Ledger trouble never
// fails the lint itself.
func recordRun(root string, watch siteconfig.WatchSettings, started, finished time.Time, result *lint.Result) {
	dataDir := filepath.Join(root, watch.DataDirectory())
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return
	}

	store, err := ledger.Open(filepath.Join(dataDir, "ledger.db"))
	if err != nil {
		slog.Warn("Ledger open failed", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	if _, err := store.Append(context.Background(), ledger.TriggerCLI, started, finished, result); err != nil {
		slog.Warn("Ledger append failed", "error", err)
	}
}

// filterStaged narrows a result to issues in git-staged content files. A
// staged configuration change keeps all configuration-level issues in
// scope, since key edits surface problems in the files that reference
// them.
func filterStaged(result *lint.Result, root string) (*lint.Result, error) {
	repo, err := gitrepo.Open(root)
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	staged, err := repo.StagedContentFiles()
	if err != nil {
		return nil, err
	}

	inScope := make(map[string]bool, len(staged))
	for _, f := range staged {
		inScope[f] = true
	}

	filtered := &lint.Result{FilesTotal: len(staged)}
	for _, issue := range result.Issues {
		if inScope[issue.FilePath] {
			filtered.Issues = append(filtered.Issues, issue)
		}
	}
	return filtered, nil
}
