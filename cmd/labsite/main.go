package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/labsite/cmd/labsite/commands"
	"git.home.luguber.info/inful/labsite/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Must(cli, commands.Options()...)

	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&commands.Global{Out: os.Stdout}, cli); err != nil {
		os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Report(err))
	}
}
