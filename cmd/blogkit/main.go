package main

import (
	"fmt"
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogkit/cmd/blogkit/commands"
	"git.home.luguber.info/inful/blogkit/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("blogkit"),
		kong.Description("Integrity tooling for Jekyll blogs that route titles and article paths through _config.yml."),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("blogkit %s (commit %s, built %s)",
				version.Version, version.GitCommit, version.BuildTime),
		},
	)

	err := ctx.Run(&commands.Global{Logger: slog.Default()}, &cli)
	ctx.FatalIfErrorf(err)
}
