package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity"
	"github.com/etnz/equity/date"
	"github.com/etnz/equity/renderer"
	"github.com/google/subcommands"
)

// vestCmd holds the flags for the 'vest' subcommand.
type vestCmd struct {
	ticker string
	price  string
	units  int64
	begin  string
	cliff  string
	cutoff string
	months int
}

func (*vestCmd) Name() string     { return "vest" }
func (*vestCmd) Synopsis() string { return "print a vesting schedule" }
func (*vestCmd) Usage() string {
	return `eqt vest [-ticker <ticker>] [-price <strike>] -units <n> -begin <date> [-cliff <date>] [-cutoff <date>] [-months <n>]

  Prints the options vested month by month by a grant.

  Without -units, prints the schedule of every grant of the scenario.
`
}

func (c *vestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "ticker", "", "Ticker of the granted options")
	f.StringVar(&c.price, "price", "0", "Strike price")
	f.Int64Var(&c.units, "units", 0, "Total units granted")
	f.StringVar(&c.begin, "begin", "", "Vesting start date")
	f.StringVar(&c.cliff, "cliff", "", "Cliff date, no cliff if empty")
	f.StringVar(&c.cutoff, "cutoff", "", "Report only what has vested by this date")
	f.IntVar(&c.months, "months", equity.DefaultVestingMonths, "Vesting term in months")
}

// schedule returns the schedule described by the flags.
func (c *vestCmd) schedule() (equity.Schedule, error) {
	s := equity.Schedule{Ticker: c.ticker, Units: c.units, Months: c.months}
	var err error
	if s.Price, err = equity.ParseMoney(c.price); err != nil {
		return s, fmt.Errorf("invalid -price: %w", err)
	}
	dates := []struct {
		dst  *date.Date
		flag string
		str  string
	}{
		{&s.Begin, "begin", c.begin},
		{&s.Cliff, "cliff", c.cliff},
		{&s.Cutoff, "cutoff", c.cutoff},
	}
	for _, d := range dates {
		if d.str == "" {
			continue
		}
		if *d.dst, err = date.Parse(d.str); err != nil {
			return s, fmt.Errorf("invalid -%s: %w", d.flag, err)
		}
	}
	return s, nil
}

func (c *vestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var schedules []equity.Schedule
	if c.units != 0 {
		s, err := c.schedule()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
		schedules = append(schedules, s)
	} else {
		scenario, err := DecodeScenario(*scenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, g := range scenario.Grants {
			schedules = append(schedules, g.Schedule())
		}
	}

	for _, s := range schedules {
		chunks, err := s.Chunks()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error vesting %s: %v\n", s.Ticker, err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.ScheduleMarkdown(s, chunks))
	}
	return subcommands.ExitSuccess
}
