package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity/renderer"
	"github.com/google/subcommands"
)

type lotsCmd struct{}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "list the lots of the scenario" }
func (*lotsCmd) Usage() string {
	return `eqt lots

  Applies the scenario and lists every lot with its option, stock and sale
  stages, and the cash left.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	md := renderer.LotsMarkdown(p.Ledger)
	md += fmt.Sprintf("\nCash: %s\n", p.Cash())
	printMarkdown(md)
	return subcommands.ExitSuccess
}
