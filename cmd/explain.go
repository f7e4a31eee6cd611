package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/equity/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// explainCmd holds the flags for the 'explain' subcommand.
type explainCmd struct {
	years string
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "ask Gemini to explain the taxes of the scenario" }
func (*explainCmd) Usage() string {
	return `eqt explain [-year <year>[,<year>...]]

  Computes the tax reports like 'eqt taxes' and asks Gemini to explain them.

  The Gemini client is configured from the environment (GOOGLE_API_KEY).
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.years, "year", "", "Comma separated tax years, all filed years if empty")
}

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	years, err := parseYears(c.years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -year: %v\n", err)
		return subcommands.ExitUsageError
	}
	provider, err := NewProvider()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	p, err := DecodePortfolio(*scenarioFile, provider)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	reports, err := p.TaxReports(ctx, years...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing taxes: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	answer, err := agent.Explain(ctx, client, agent.NewExplainer(provider), reports...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Explainer failed:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(answer)
	return subcommands.ExitSuccess
}
