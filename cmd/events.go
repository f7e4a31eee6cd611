package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/renderer"
	"github.com/google/subcommands"
)

// eventsCmd holds the flags for the 'events' subcommand.
type eventsCmd struct {
	json bool
}

func (*eventsCmd) Name() string     { return "events" }
func (*eventsCmd) Synopsis() string { return "print the audit events of the scenario" }
func (*eventsCmd) Usage() string {
	return `eqt events [-json]

  Prints the grants, exercises and sales of every lot in chronological order.
  With -json, prints one JSON object per line.
`
}

func (c *eventsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "Print events as JSONL")
}

func (c *eventsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.json {
		if err := equity.EncodeEvents(os.Stdout, p.Events()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding events: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.EventsMarkdown(p.Events()))
	return subcommands.ExitSuccess
}
