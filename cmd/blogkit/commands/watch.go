package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/blogkit/internal/daemon"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Addr    string `help:"Status server listen address (overrides blogkit.watch.addr)" placeholder:"ADDR"`
	DataDir string `short:"d" help:"State directory (overrides blogkit.watch.data_dir)" placeholder:"DIR"`
}

// Run executes the watch command.
func (cmd *WatchCmd) Run(_ *Global, root *CLI) error {
	dir, err := root.ResolveRoot()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []daemon.Option
	if cmd.Addr != "" {
		opts = append(opts, daemon.WithListenAddr(cmd.Addr))
	}
	if cmd.DataDir != "" {
		opts = append(opts, daemon.WithDataDir(cmd.DataDir))
	}

	d, err := daemon.New(dir, opts...)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	slog.Info("Watch mode started, waiting for shutdown signal...")
	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("daemon error: %w", err)
	}

	slog.Info("Watch mode stopped")
	return nil
}
