// Package cmd implements the eqt subcommands.
package cmd

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/equity"
	"github.com/etnz/equity/taxee"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var scenarioFile = flag.String("scenario", "equity.yaml", "Path to the scenario file (YAML)")

// commands lists the subcommands and their group.
var commands = []struct {
	cmd   subcommands.Command
	group string
}{
	{&vestCmd{}, "grants"},
	{&lotsCmd{}, "grants"},
	{&eventsCmd{}, "grants"},
	{&taxesCmd{}, "taxes"},
	{&explainCmd{}, "taxes"},
	{&exportCmd{}, "taxes"},
	{&topicCmd{}, "help"},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// DecodeScenario decodes the scenario file at path.
func DecodeScenario(path string) (*equity.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scenario file %q: %w", path, err)
	}
	defer f.Close()
	s, err := equity.DecodeScenario(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode scenario file %q: %w", path, err)
	}
	return s, nil
}

// DecodePortfolio builds the portfolio described by the scenario file at
// path, using provider for tax tables.
func DecodePortfolio(path string, provider equity.TaxTableProvider) (*equity.Portfolio, error) {
	s, err := DecodeScenario(path)
	if err != nil {
		return nil, err
	}
	p, err := s.Portfolio(provider)
	if err != nil {
		return nil, fmt.Errorf("could not apply scenario file %q: %w", path, err)
	}
	return p, nil
}

// NewProvider returns the tax tables provider configured from the environment.
func NewProvider() (*taxee.Client, error) {
	cfg, err := taxee.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid taxee configuration: %w", err)
	}
	return taxee.New(cfg), nil
}

// loadPortfolio decodes the app scenario with the environment provider.
func loadPortfolio() (*equity.Portfolio, error) {
	provider, err := NewProvider()
	if err != nil {
		return nil, err
	}
	return DecodePortfolio(*scenarioFile, provider)
}

// parseYears parses a comma separated list of years. An empty list means all years.
func parseYears(s string) ([]int, error) {
	var years []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		year, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", field, err)
		}
		years = append(years, year)
	}
	return years, nil
}

// printMarkdown prints md rendered for the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("warning, cannot render markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
