package equity

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/equity/date"
)

// TestPortfolio_Jeff replays testdata/jeff.yaml: 8,000 options at $2.18 with
// a one year cliff and 5,000 options at $3.08, 12,400 of them exercised and
// 1,000 sold.
func TestPortfolio_Jeff(t *testing.T) {
	p := jeff(t)

	want := Position{Unexercised: 600, Held: 11_400, Sold: 1_000}
	if got := p.Ledger.Position("JEFF"); got != want {
		t.Errorf("Position(JEFF) = %+v, want %+v", got, want)
	}
	if got := p.Ledger.Units("JEFF", StockStage); got != 12_400 {
		t.Errorf("Units(JEFF, stock) = %d, want 12400", got)
	}
	// 50,000 - 2,400 * 2.18 - (5,600 * 2.18 + 4,400 * 3.08) + 1,000 * 50
	if got, want := p.Cash(), USD(69_008); !got.Equal(want) {
		t.Errorf("Cash() = %v, want %v", got, want)
	}

	sold := p.Ledger.Sold(2021)
	if len(sold) != 1 {
		t.Fatalf("len(Sold(2021)) = %d, want 1", len(sold))
	}
	lc := sold[0]
	if lc.Option.Date != date.MustParse("2020-01-07") || lc.Stock.Date != date.MustParse("2020-12-30") {
		t.Errorf("sold lot granted on %v and exercised on %v, want the cliff lot exercised on 2020-12-30", lc.Option.Date, lc.Stock.Date)
	}
	if IsLongTerm(lc) {
		t.Error("IsLongTerm(sold lot) = true, want false")
	}

	events := p.Events()
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Fatalf("Events()[%d] on %v is before the previous event on %v", i, events[i].Date, events[i-1].Date)
		}
	}
}

func TestPortfolio_TaxReports(t *testing.T) {
	ctx := context.Background()
	p := jeff(t)

	reports, err := p.TaxReports(ctx)
	if err != nil {
		t.Fatalf("TaxReports() unexpected error: %v", err)
	}
	if len(reports) != 2 || reports[0].Year != 2020 || reports[1].Year != 2021 {
		t.Fatalf("TaxReports() = %d reports, want 2020 and 2021", len(reports))
	}

	testCases := []struct {
		name string
		got  Money
		want Money
	}{
		// 2,400 * (15 - 2.18)
		{"2020 spread", reports[0].AMT.Spread, USD(30_768)},
		// 26% of (80,000 + 30,768 - 72,900) - 9,000
		{"2020 AMT", reports[0].AMT.Owed, USD(845.68)},
		{"2020 capital gains", reports[0].CapitalGains.Total(), USD(0)},
		// 10,000 * 16.57 - 5,600 * 2.18 - 4,400 * 3.08
		{"2021 spread", reports[1].AMT.Spread, USD(139_940)},
		// 26% of (80,000 + 139,940 - 72,900) - 9,000
		{"2021 AMT", reports[1].AMT.Owed, USD(29_230.40)},
		// 1,000 * (50 - 2.18)
		{"2021 short-term gain", reports[1].CapitalGains.ShortTermGain, USD(47_820)},
		{"2021 federal tax on gain", reports[1].CapitalGains.ShortTerm.Federal, USD(9_564)},
		{"2021 state tax on gain", reports[1].CapitalGains.ShortTerm.State, USD(2_391)},
		{"2021 long-term tax", reports[1].CapitalGains.LongTerm, USD(0)},
		{"2021 income tax", reports[1].Income.Total(), USD(12_750)},
	}
	for _, tc := range testCases {
		if !tc.got.Equal(tc.want) {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}

	// the same inputs give the same figures.
	again, err := jeff(t).TaxReport(ctx, 2021)
	if err != nil {
		t.Fatalf("TaxReport(2021) unexpected error: %v", err)
	}
	if !again.Total().Equal(reports[1].Total()) {
		t.Errorf("TaxReport(2021).Total() = %v, then %v", reports[1].Total(), again.Total())
	}
}

func TestPortfolio_MissingFiling(t *testing.T) {
	ctx := context.Background()
	p := jeff(t)
	if _, err := p.TaxReport(ctx, 2022); !errors.Is(err, ErrMissingFiling) {
		t.Errorf("TaxReport(2022) error = %v, want %v", err, ErrMissingFiling)
	}
	if _, err := p.TaxReports(ctx, 2021, 2022); !errors.Is(err, ErrMissingFiling) {
		t.Errorf("TaxReports(2021, 2022) error = %v, want %v", err, ErrMissingFiling)
	}
	if _, err := p.AMTTaxes(ctx, 2019); !errors.Is(err, ErrMissingFiling) {
		t.Errorf("AMTTaxes(2019) error = %v, want %v", err, ErrMissingFiling)
	}
}

func TestPortfolio_GrantSchedule(t *testing.T) {
	p := NewPortfolio(testTables(t), Money{})
	ids, err := p.GrantSchedule(Schedule{Ticker: "JEFF", Price: USD(1), Units: 480, Begin: date.MustParse("2021-01-01"), Months: 12})
	if err != nil {
		t.Fatalf("GrantSchedule() unexpected error: %v", err)
	}
	if len(ids) != 12 || p.Ledger.Len() != 12 {
		t.Errorf("GrantSchedule() = %d lots, ledger has %d, want 12", len(ids), p.Ledger.Len())
	}
	if got := len(p.Events()); got != 12 {
		t.Errorf("len(Events()) = %d, want 12", got)
	}
	if _, err := p.GrantSchedule(Schedule{Ticker: "JEFF", Units: -1, Begin: date.MustParse("2021-01-01")}); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Errorf("GrantSchedule(-1 units) error = %v, want %v", err, ErrInvalidVestingParameters)
	}

	if err := p.Exercise("JEFF", 100, date.MustParse("2021-06-01"), USD(3), ByDate); err != nil {
		t.Fatalf("Exercise() unexpected error: %v", err)
	}
	if err := p.Sell("JEFF", 100, date.MustParse("2021-07-01"), USD(4), ByPrice); err != nil {
		t.Fatalf("Sell() unexpected error: %v", err)
	}
	if got, want := p.Cash(), USD(300); !got.Equal(want) {
		t.Errorf("Cash() = %v, want %v", got, want)
	}
}
