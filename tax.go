package equity

// Bracket is one band of a progressive tax: income above IncomeLevel, up to
// the next bracket's level, is taxed at MarginalRate.
type Bracket struct {
	IncomeLevel  Money
	MarginalRate Rate
}

// Brackets is a progressive tax table ordered by ascending income level.
type Brackets []Bracket

// Apply returns the tax owed on income.
//
// Each bracket taxes the part of the income within its band; the last
// bracket taxes everything left. The result is never negative.
func (b Brackets) Apply(income Money) Money {
	var tax Money
	remaining := income
	for i, bracket := range b {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if i < len(b)-1 {
			band := b[i+1].IncomeLevel.Sub(bracket.IncomeLevel)
			portion = remaining.Min(band)
		}
		tax = tax.Add(portion.MulRate(bracket.MarginalRate))
		remaining = remaining.Sub(portion)
	}
	return tax.Max(Money{})
}

// Payroll taxes constants.
var (
	// socialSecurity is capped at the 2020 wage base.
	socialSecurity = Brackets{
		{IncomeLevel: USD(0), MarginalRate: Percent(6.2)},
		{IncomeLevel: USD(142_800), MarginalRate: Percent(0)},
	}
	medicareRate = Percent(1.45)
)

// Payroll holds the payroll taxes on a gross income.
type Payroll struct {
	SocialSecurity Money
	Medicare       Money
}

// Total returns the sum of payroll taxes.
func (p Payroll) Total() Money { return p.SocialSecurity.Add(p.Medicare) }

// PayrollTax computes the social security (capped) and medicare (uncapped)
// taxes on gross.
func PayrollTax(gross Money) Payroll {
	return Payroll{
		SocialSecurity: socialSecurity.Apply(gross),
		Medicare:       gross.Max(Money{}).MulRate(medicareRate),
	}
}
