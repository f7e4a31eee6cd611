package equity

import (
	"os"
	"testing"

	"github.com/etnz/equity/date"
)

// testing tax tables: simple round numbers instead of published ones.
var (
	testFederal = TaxTable{
		Deduction: USD(10_000),
		Brackets: Brackets{
			{IncomeLevel: USD(0), MarginalRate: Percent(10)},
			{IncomeLevel: USD(50_000), MarginalRate: Percent(20)},
		},
	}
	testState = TaxTable{
		Deduction: USD(5_000),
		Brackets: Brackets{
			{IncomeLevel: USD(0), MarginalRate: Percent(5)},
		},
	}
	testCapitalGains = TaxTable{
		Deduction: USD(10_000),
		Brackets: Brackets{
			{IncomeLevel: USD(0), MarginalRate: Percent(0)},
			{IncomeLevel: USD(40_000), MarginalRate: Percent(15)},
		},
	}
	testAllTables = Tables{Federal: testFederal, State: testState, CapitalGains: testCapitalGains}
)

// testFiling has an AGI of 80,000.
var testFiling = Filing{
	Year:         2021,
	GrossIncome:  USD(100_000),
	Withholdings: USD(20_000),
	State:        "california",
	Status:       Single,
}

// testTables returns a provider serving the testing tables for single filers
// in california, from 2019 to 2021.
func testTables(t *testing.T) *MemoryTables {
	t.Helper()
	m := NewMemoryTables()
	for year := 2019; year <= 2021; year++ {
		add := func(region string, capitalGains bool, table TaxTable) {
			if err := m.Add(TableQuery{Year: year, Region: region, Status: Single, CapitalGains: capitalGains}, table); err != nil {
				t.Fatalf("MemoryTables.Add(%d %s) unexpected error: %v", year, region, err)
			}
		}
		add(Federal, false, testFederal)
		add("california", false, testState)
		add(Federal, true, testCapitalGains)
	}
	return m
}

// jeff returns the portfolio of testdata/jeff.yaml.
func jeff(t *testing.T) *Portfolio {
	t.Helper()
	f, err := os.Open("testdata/jeff.yaml")
	if err != nil {
		t.Fatalf("cannot open scenario: %v", err)
	}
	defer f.Close()
	s, err := DecodeScenario(f)
	if err != nil {
		t.Fatalf("DecodeScenario() unexpected error: %v", err)
	}
	p, err := s.Portfolio(testTables(t))
	if err != nil {
		t.Fatalf("Scenario.Portfolio() unexpected error: %v", err)
	}
	return p
}

// lot is a helper to create a lifecycle in tests. Stock and sale are skipped
// when their date is empty.
func lot(grant string, strike float64, units int64, exercise string, fmv float64, sale string, price float64) Lifecycle {
	lc := Lifecycle{
		Ticker: "JEFF",
		Option: Asset{Price: USD(strike), Units: units, Date: date.MustParse(grant)},
	}
	if exercise != "" {
		lc.Stock = &Asset{Price: USD(strike), Units: units, Date: date.MustParse(exercise), FMV: USD(fmv)}
	}
	if sale != "" {
		lc.Sale = &Asset{Price: USD(price), Units: units, Date: date.MustParse(sale)}
	}
	return lc
}
