package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity/renderer"
	"github.com/google/subcommands"
)

// taxesCmd holds the flags for the 'taxes' subcommand.
type taxesCmd struct {
	years string
}

func (*taxesCmd) Name() string     { return "taxes" }
func (*taxesCmd) Synopsis() string { return "compute the taxes of the scenario" }
func (*taxesCmd) Usage() string {
	return `eqt taxes [-year <year>[,<year>...]]

  Computes payroll, income, capital gains and alternative minimum taxes for
  each year, every year with a filing by default.

  Tax tables are fetched from taxee, see 'eqt topic taxes'.
`
}

func (c *taxesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.years, "year", "", "Comma separated tax years, all filed years if empty")
}

func (c *taxesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	years, err := parseYears(c.years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -year: %v\n", err)
		return subcommands.ExitUsageError
	}
	p, err := loadPortfolio()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	reports, err := p.TaxReports(ctx, years...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing taxes: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, r := range reports {
		printMarkdown(renderer.TaxReportMarkdown(r))
	}
	return subcommands.ExitSuccess
}
