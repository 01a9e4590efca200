package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"github.com/ctcl/ctclsite/cmd/ctclsite/commands"
	"github.com/ctcl/ctclsite/internal/config"
	ferrors "github.com/ctcl/ctclsite/internal/foundation/errors"
	"github.com/ctcl/ctclsite/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("ctclsite"),
		kong.Description("Build and serve a site declared as JSON page records."),
		kong.Vars{
			"version":     version.String(),
			"config_path": config.DefaultPath,
		},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, &cli)
	// HandleError exits with the code mapped from the error category.
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
