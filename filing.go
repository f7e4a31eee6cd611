package equity

import "fmt"

// FilingStatus is the tax filing status of a household.
type FilingStatus string

const (
	Single            FilingStatus = "single"
	Married           FilingStatus = "married"
	MarriedSeparately FilingStatus = "married_separately"
	HeadOfHousehold   FilingStatus = "head_of_household"
)

// ParseFilingStatus parses a filing status.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch st := FilingStatus(s); st {
	case Single, Married, MarriedSeparately, HeadOfHousehold:
		return st, nil
	default:
		return "", fmt.Errorf("unknown filing status %q", s)
	}
}

// Filing is the household income declared for one tax year.
type Filing struct {
	Year         int
	GrossIncome  Money
	Withholdings Money
	State        string       // filing state, like "california".
	Status       FilingStatus // filing status.

	// Optional deductions replacing the standard ones.
	FederalDeduction *Money
	StateDeduction   *Money
}

// AGI returns the adjusted gross income: gross income minus withholdings.
func (f Filing) AGI() Money { return f.GrossIncome.Sub(f.Withholdings) }
