package equity

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/equity/date"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Portfolio binds the ledger of one household's grants to its yearly tax
// filings.
//
// A Portfolio is owned by a single caller: it is not safe for concurrent
// mutation. Tax computations only read it.
type Portfolio struct {
	Ledger   *Ledger
	filings  map[int]Filing
	cash     Money // starting cash.
	events   Events
	provider TaxTableProvider
}

// NewPortfolio creates an empty portfolio with a starting cash balance, using
// provider to get tax tables.
func NewPortfolio(provider TaxTableProvider, cash Money, filings ...Filing) *Portfolio {
	p := &Portfolio{
		Ledger:   NewLedger(),
		filings:  make(map[int]Filing),
		cash:     cash,
		provider: provider,
	}
	for _, f := range filings {
		p.SetFiling(f)
	}
	return p
}

// SetFiling adds or replaces the filing of f.Year.
func (p *Portfolio) SetFiling(f Filing) { p.filings[f.Year] = f }

// Filing returns the filing of year.
func (p *Portfolio) Filing(year int) (Filing, bool) {
	f, ok := p.filings[year]
	return f, ok
}

// Years returns the years with a filing, in order.
func (p *Portfolio) Years() []int { return slices.Sorted(maps.Keys(p.filings)) }

// GrantOption grants units options of ticker at price, on a date.
func (p *Portfolio) GrantOption(ticker string, price Money, units int64, on date.Date) (uuid.UUID, error) {
	return p.Ledger.Grant(ticker, price, units, on, &p.events)
}

// GrantSchedule grants one lot per vested chunk of s.
func (p *Portfolio) GrantSchedule(s Schedule) ([]uuid.UUID, error) {
	chunks, err := s.Chunks()
	if err != nil {
		return nil, fmt.Errorf("cannot grant %s: %w", s.Ticker, err)
	}
	ids := make([]uuid.UUID, 0, len(chunks))
	for _, c := range chunks {
		id, err := p.GrantOption(s.Ticker, s.Price, c.Units, c.Date)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Evolve exercises or sells lots, see Ledger.Evolve.
func (p *Portfolio) Evolve(o Order) error { return p.Ledger.Evolve(o, &p.events) }

// Exercise exercises units options of ticker, valued fmv per unit.
func (p *Portfolio) Exercise(ticker string, units int64, on date.Date, fmv Money, ordering Ordering) error {
	return p.Evolve(Order{Action: ExerciseOptions, Ticker: ticker, Units: units, Date: on, FMV: fmv, Ordering: ordering})
}

// Sell sells units stocks of ticker at price.
func (p *Portfolio) Sell(ticker string, units int64, on date.Date, price Money, ordering Ordering) error {
	return p.Evolve(Order{Action: SellStocks, Ticker: ticker, Units: units, Date: on, Price: price, Ordering: ordering})
}

// Events returns all the events recorded, in chronological order.
func (p *Portfolio) Events() Events { return p.events.Sorted() }

// Cash returns the starting cash, minus the cost of exercises, plus the
// proceeds of sales.
func (p *Portfolio) Cash() Money {
	cash := p.cash
	for _, e := range p.events {
		switch e.Action {
		case ExerciseOptions:
			cash = cash.Sub(e.Price.Times(e.Units))
		case SellStocks:
			cash = cash.Add(e.Price.Times(e.Units))
		}
	}
	return cash
}

// tables returns the filing of year and its tax tables.
func (p *Portfolio) tables(ctx context.Context, year int) (Filing, Tables, error) {
	f, ok := p.filings[year]
	if !ok {
		return f, Tables{}, fmt.Errorf("%w for %d", ErrMissingFiling, year)
	}
	t, err := FetchTables(ctx, p.provider, f)
	return f, t, err
}

// IncomeTaxes returns the income taxes of year.
func (p *Portfolio) IncomeTaxes(ctx context.Context, year int) (IncomeTax, error) {
	f, t, err := p.tables(ctx, year)
	if err != nil {
		return IncomeTax{}, err
	}
	return IncomeTaxes(f, t, Money{}), nil
}

// CapitalGainsTaxes returns the taxes on the gains of the lots sold in year.
func (p *Portfolio) CapitalGainsTaxes(ctx context.Context, year int) (CapitalGainsTax, error) {
	f, t, err := p.tables(ctx, year)
	if err != nil {
		return CapitalGainsTax{}, err
	}
	return CapitalGainsTaxes(f, t, p.Ledger.Sold(year)), nil
}

// AMTTaxes returns the alternative minimum tax of year.
func (p *Portfolio) AMTTaxes(ctx context.Context, year int) (AMT, error) {
	f, t, err := p.tables(ctx, year)
	if err != nil {
		return AMT{}, err
	}
	return AMTTaxes(f, t, p.Ledger.Exercised(year)), nil
}

// TaxReport computes all the taxes of year.
func (p *Portfolio) TaxReport(ctx context.Context, year int) (*TaxReport, error) {
	f, t, err := p.tables(ctx, year)
	if err != nil {
		return nil, err
	}
	return NewTaxReport(f, t, p.Ledger.Exercised(year), p.Ledger.Sold(year)), nil
}

// TaxReports computes the reports of several years in parallel. With no year,
// it reports on every year with a filing.
func (p *Portfolio) TaxReports(ctx context.Context, years ...int) ([]*TaxReport, error) {
	if len(years) == 0 {
		years = p.Years()
	}
	reports := make([]*TaxReport, len(years))
	g, ctx := errgroup.WithContext(ctx)
	for i, year := range years {
		g.Go(func() error {
			r, err := p.TaxReport(ctx, year)
			if err != nil {
				return err
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
