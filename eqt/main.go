// Command eqt tracks employee stock options and their taxes.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/equity/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Completion exits when the shell asks for it.
	cmd.Completion().Complete("eqt")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
