// Package gitrepo integrates the blog with its git repository: root
// discovery, staged-file queries for the pre-commit hook, and hook
// installation.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/blogkit/internal/siteconfig"
)

// Repo wraps a blog's git repository.
type Repo struct {
	repo *git.Repository
	root string
}

// FindRoot walks up from dir to the enclosing git worktree root. When
// dir is not inside a repository, dir itself is returned with ok=false.
func FindRoot(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return dir, false
	}
	wt, err := repo.Worktree()
	if err != nil {
		return dir, false
	}
	return wt.Filesystem.Root(), true
}

// Open opens the repository enclosing dir.
func Open(dir string) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root.
func (r *Repo) Root() string { return r.root }

// StagedContentFiles returns the staged paths lint cares about: markdown
// content and the configuration file. Paths are worktree-relative and
// sorted.
func (r *Repo) StagedContentFiles() ([]string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("resolve worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("read worktree status: %w", err)
	}

	var files []string
	for path, st := range status {
		if st.Staging == git.Unmodified || st.Staging == git.Untracked {
			continue
		}
		if st.Staging == git.Deleted {
			continue
		}
		if !isContentPath(path) {
			continue
		}
		files = append(files, filepath.FromSlash(path))
	}
	sort.Strings(files)
	return files, nil
}

func isContentPath(path string) bool {
	base := filepath.Base(path)
	if base == siteconfig.StandardFilename || base == "_config.yaml" {
		return filepath.Dir(path) == "."
	}
	if !strings.HasPrefix(path, "_drafts/") && !strings.HasPrefix(path, "_posts/") {
		return false
	}
	return strings.HasSuffix(base, ".md") || strings.HasSuffix(base, ".markdown")
}

// preCommitHook is what `blogkit hook install` writes. The staged flag
// keeps the hook scoped to what the commit actually touches.
const preCommitHook = `#!/bin/sh
# Installed by blogkit. Lints staged blog content before each commit.
exec blogkit lint --staged --quiet
`

// InstallHook writes the pre-commit hook. An existing hook not written
// by blogkit is left alone and reported as an error.
func (r *Repo) InstallHook() (string, error) {
	hooksDir := filepath.Join(r.root, ".git", "hooks")
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return "", fmt.Errorf("create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if existing, err := os.ReadFile(hookPath); err == nil {
		if !strings.Contains(string(existing), "blogkit") {
			return "", fmt.Errorf("a pre-commit hook already exists at %s; remove it first", hookPath)
		}
	}

	if err := os.WriteFile(hookPath, []byte(preCommitHook), 0o755); err != nil {
		return "", fmt.Errorf("write pre-commit hook: %w", err)
	}
	return hookPath, nil
}
