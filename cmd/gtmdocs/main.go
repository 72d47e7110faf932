// Command gtmdocs exports a Google Tag Manager container's tags, triggers,
// variables and version history as markdown documentation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/gtmdocs/cmd/gtmdocs/commands"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/gtmdocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("gtmdocs"),
		kong.Description("Export Google Tag Manager containers as markdown documentation."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	// AfterApply has installed the default logger by now.
	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout}
	if err := parser.Run(global, cli); err != nil {
		adapter := ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		adapter.Log(err)
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
