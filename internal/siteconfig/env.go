package siteconfig

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadDotenv loads a `.env` next to the config file (and one in the current
// directory) into the process environment before `${VAR}` expansion runs.
// Already-set variables win, so the environment can override the file.
func loadDotenv(dir string) {
	candidates := []string{filepath.Join(dir, ".env")}
	if cwd, err := os.Getwd(); err == nil && cwd != dir {
		candidates = append(candidates, filepath.Join(cwd, ".env"))
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			slog.Debug("Skipping unreadable .env file", "path", path, "error", err)
		}
	}
}
