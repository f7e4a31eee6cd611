package equity

import (
	"context"
	"fmt"

	"github.com/etnz/equity/date"
	"golang.org/x/sync/errgroup"
)

// AMT constants.
var (
	amtExemption = USD(72_900)
	amtRate      = Percent(26)
)

// ISO qualifying disposition thresholds, in days.
const (
	longTermSinceGrant    = 730
	longTermSinceExercise = 365
)

// Tables are the tax tables needed to compute one filing's taxes.
type Tables struct {
	Federal      TaxTable // federal income.
	State        TaxTable // filing state income.
	CapitalGains TaxTable // federal long-term capital gains.
}

// FetchTables looks up the three tables of the filing's year, concurrently.
func FetchTables(ctx context.Context, p TaxTableProvider, f Filing) (Tables, error) {
	var t Tables
	g, ctx := errgroup.WithContext(ctx)
	lookup := func(dst *TaxTable, region string, capitalGains bool) {
		g.Go(func() error {
			table, err := p.Lookup(ctx, TableQuery{Year: f.Year, Region: region, Status: f.Status, CapitalGains: capitalGains})
			if err != nil {
				return fmt.Errorf("cannot get %d %s tables: %w", f.Year, region, err)
			}
			*dst = table
			return nil
		})
	}
	lookup(&t.Federal, Federal, false)
	lookup(&t.State, f.State, false)
	lookup(&t.CapitalGains, Federal, true)
	if err := g.Wait(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// IncomeTax is an amount of tax split by jurisdiction.
type IncomeTax struct {
	Federal Money
	State   Money
}

// Total returns the federal and state taxes together.
func (t IncomeTax) Total() Money { return t.Federal.Add(t.State) }

// IncomeTaxes returns the income taxes on the filing's AGI, after deductions.
//
// If extra is not zero, it returns instead the additional tax owed on extra
// when it is stacked on top of the filing's income.
func IncomeTaxes(f Filing, t Tables, extra Money) IncomeTax {
	federalDeduction, stateDeduction := t.Federal.Deduction, t.State.Deduction
	if f.FederalDeduction != nil {
		federalDeduction = *f.FederalDeduction
	}
	if f.StateDeduction != nil {
		stateDeduction = *f.StateDeduction
	}
	federalIncome := f.AGI().Sub(federalDeduction)
	stateIncome := f.AGI().Sub(stateDeduction)

	tax := IncomeTax{
		Federal: t.Federal.Brackets.Apply(federalIncome),
		State:   t.State.Brackets.Apply(stateIncome),
	}
	if extra.IsZero() {
		return tax
	}
	return IncomeTax{
		Federal: t.Federal.Brackets.Apply(federalIncome.Add(extra)).Sub(tax.Federal),
		State:   t.State.Brackets.Apply(stateIncome.Add(extra)).Sub(tax.State),
	}
}

// IsLongTerm reports whether a sold lot is a qualifying disposition: sold at
// least two years after the grant and one year after the exercise.
func IsLongTerm(lc Lifecycle) bool {
	if lc.Stock == nil || lc.Sale == nil {
		return false
	}
	return date.DaysBetween(lc.Option.Date, lc.Sale.Date) >= longTermSinceGrant &&
		date.DaysBetween(lc.Stock.Date, lc.Sale.Date) >= longTermSinceExercise
}

// Gain returns the sale proceeds minus the stock cost basis of a sold lot.
func Gain(lc Lifecycle) Money {
	if lc.Stock == nil || lc.Sale == nil {
		return Money{}
	}
	return lc.Sale.Cost().Sub(lc.Stock.Cost())
}

// CapitalGainsTax holds the gains of a year's sales and the taxes on them.
type CapitalGainsTax struct {
	ShortTermGain Money     // net gain of non qualifying dispositions.
	LongTermGain  Money     // net gain of qualifying dispositions.
	ShortTerm     IncomeTax // marginal income tax on the short-term gain.
	LongTerm      Money     // federal capital-gains tax on the long-term gain.
}

// Total returns all the taxes due on gains.
func (c CapitalGainsTax) Total() Money { return c.ShortTerm.Total().Add(c.LongTerm) }

// CapitalGainsTaxes computes the taxes on the gains of sold lots.
//
// Short-term gains are taxed as ordinary income on top of the filing's
// income, long-term gains at the federal capital-gains rates. Net losses are
// not deducted.
func CapitalGainsTaxes(f Filing, t Tables, sold []Lifecycle) CapitalGainsTax {
	var c CapitalGainsTax
	for _, lc := range sold {
		if IsLongTerm(lc) {
			c.LongTermGain = c.LongTermGain.Add(Gain(lc))
		} else {
			c.ShortTermGain = c.ShortTermGain.Add(Gain(lc))
		}
	}
	if c.ShortTermGain.IsPositive() {
		c.ShortTerm = IncomeTaxes(f, t, c.ShortTermGain)
	}
	c.LongTerm = t.CapitalGains.Brackets.Apply(c.LongTermGain)
	return c
}

// AMT details the alternative minimum tax computation.
type AMT struct {
	Spread    Money // exercise spread: value at exercise minus strike cost.
	Base      Money // AGI plus spread minus the exemption.
	Tentative Money // tentative minimum tax.
	Regular   Money // regular federal income tax.
	Owed      Money // AMT due on top of the regular tax.
}

// AMTTaxes computes the alternative minimum tax of a year in which the
// exercised lots were exercised.
func AMTTaxes(f Filing, t Tables, exercised []Lifecycle) AMT {
	var a AMT
	for _, lc := range exercised {
		if lc.Stock == nil {
			continue
		}
		value := lc.Stock.FMV.Times(lc.Stock.Units)
		a.Spread = a.Spread.Add(value.Sub(lc.Option.Cost()))
	}
	a.Base = f.AGI().Add(a.Spread).Sub(amtExemption)
	a.Tentative = a.Base.MulRate(amtRate)
	a.Regular = IncomeTaxes(f, t, Money{}).Federal
	a.Owed = a.Tentative.Sub(a.Regular).Max(Money{})
	return a
}

// TaxReport gathers all the taxes of a year.
type TaxReport struct {
	Year         int
	Filing       Filing
	Payroll      Payroll
	Income       IncomeTax
	CapitalGains CapitalGainsTax
	AMT          AMT
}

// Total returns the sum of all taxes due.
func (r TaxReport) Total() Money {
	return r.Payroll.Total().Add(r.Income.Total()).Add(r.CapitalGains.Total()).Add(r.AMT.Owed)
}

// NewTaxReport computes the taxes of filing f from prefetched tables and the
// lots exercised and sold during the filing year.
func NewTaxReport(f Filing, t Tables, exercised, sold []Lifecycle) *TaxReport {
	return &TaxReport{
		Year:         f.Year,
		Filing:       f,
		Payroll:      PayrollTax(f.GrossIncome),
		Income:       IncomeTaxes(f, t, Money{}),
		CapitalGains: CapitalGainsTaxes(f, t, sold),
		AMT:          AMTTaxes(f, t, exercised),
	}
}
