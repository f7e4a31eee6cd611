package equity

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/equity/date"
)

// newTestLedger returns a ledger with two JEFF option lots: 100 @ $1 granted
// on 2020-01-01 and 50 @ $2 granted on 2020-02-01.
func newTestLedger(t *testing.T, sink EventSink) *Ledger {
	t.Helper()
	l := NewLedger()
	if _, err := l.Grant("JEFF", USD(1), 100, date.MustParse("2020-01-01"), sink); err != nil {
		t.Fatalf("Grant() unexpected error: %v", err)
	}
	if _, err := l.Grant("JEFF", USD(2), 50, date.MustParse("2020-02-01"), sink); err != nil {
		t.Fatalf("Grant() unexpected error: %v", err)
	}
	return l
}

// stocks lists the units of each lot in ledger order, negative when the lot
// has not been exercised.
func stocks(l *Ledger) []int64 {
	var res []int64
	for lc := range l.Lifecycles() {
		if lc.Stock == nil {
			res = append(res, -lc.Units())
			continue
		}
		res = append(res, lc.Units())
	}
	return res
}

func TestLedger_Evolve(t *testing.T) {
	testCases := []struct {
		name     string
		units    int64
		ordering Ordering
		want     []int64 // see stocks
	}{
		{"one whole lot", 100, ByDate, []int64{100, -50}},
		{"split the first lot", 30, ByDate, []int64{30, -70, -50}},
		{"split the second lot", 120, ByDate, []int64{100, 20, -30}},
		{"everything", 150, ByDate, []int64{100, 50}},
		{"highest price first", 50, ByPrice, []int64{-100, 50}},
		{"split after the highest price", 60, ByPrice, []int64{10, -90, 50}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var events Events
			l := newTestLedger(t, &events)
			err := l.Evolve(Order{
				Action:   ExerciseOptions,
				Ticker:   "JEFF",
				Units:    tc.units,
				Date:     date.MustParse("2021-01-31"),
				FMV:      USD(10),
				Ordering: tc.ordering,
			}, &events)
			if err != nil {
				t.Fatalf("Evolve() unexpected error: %v", err)
			}
			if got := stocks(l); !slices.Equal(got, tc.want) {
				t.Errorf("Evolve() lots = %v, want %v", got, tc.want)
			}
			if got := l.Units("JEFF", StockStage); got != tc.units {
				t.Errorf("Units(JEFF, stock) = %d, want %d", got, tc.units)
			}
			if got := l.Position("JEFF").Total(); got != 150 {
				t.Errorf("Position(JEFF).Total() = %d, want 150", got)
			}
			var exercised int64
			for _, e := range events[2:] {
				if e.Action != ExerciseOptions {
					t.Errorf("event action = %v, want %v", e.Action, ExerciseOptions)
				}
				exercised += e.Units
			}
			if exercised != tc.units {
				t.Errorf("exercise events total %d units, want %d", exercised, tc.units)
			}
		})
	}
}

// TestLedger_SplitFidelity checks that a split only changes the units.
func TestLedger_SplitFidelity(t *testing.T) {
	l := newTestLedger(t, nil)
	before := slices.Collect(l.Lifecycles())[0]

	if err := l.Evolve(Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 30, Date: date.MustParse("2021-01-31"), FMV: USD(10)}, nil); err != nil {
		t.Fatalf("Evolve() unexpected error: %v", err)
	}
	lots := slices.Collect(l.Lifecycles())
	head, tail := lots[0], lots[1]

	if head.ID != before.ID {
		t.Errorf("head ID = %v, want the original %v", head.ID, before.ID)
	}
	if tail.ID == before.ID {
		t.Errorf("tail ID = %v, want a new ID", tail.ID)
	}
	if head.Units()+tail.Units() != before.Units() {
		t.Errorf("head %d + tail %d units, want %d", head.Units(), tail.Units(), before.Units())
	}
	for _, lc := range []Lifecycle{head, tail} {
		if lc.Ticker != before.Ticker || !lc.Option.Price.Equal(before.Option.Price) || lc.Option.Date != before.Option.Date {
			t.Errorf("split option = %v, want the same as %v but units", lc.Option, before.Option)
		}
	}
	if tail.Stock != nil {
		t.Errorf("tail stock = %v, want nil", tail.Stock)
	}
	if head.Stock == nil || head.Stock.Units != 30 || !head.Stock.FMV.Equal(USD(10)) || !head.Stock.Price.Equal(USD(1)) {
		t.Errorf("head stock = %v, want 30 units at $1.00 with a $10.00 fmv", head.Stock)
	}
}

func TestLedger_Sell(t *testing.T) {
	l := newTestLedger(t, nil)
	exercise := Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 150, Date: date.MustParse("2021-01-31"), FMV: USD(10)}
	if err := l.Evolve(exercise, nil); err != nil {
		t.Fatalf("Evolve(exercise) unexpected error: %v", err)
	}
	unpriced := Order{Action: SellStocks, Ticker: "JEFF", Units: 120, Date: date.MustParse("2022-03-01")}
	if err := l.Evolve(unpriced, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Evolve(sell without price) error = %v, want %v", err, ErrInvalidTransition)
	}
	if got := l.Position("JEFF"); got.Sold != 0 {
		t.Fatalf("Evolve(sell without price) sold %d units, want none", got.Sold)
	}

	sell := Order{Action: SellStocks, Ticker: "JEFF", Units: 120, Date: date.MustParse("2022-03-01"), Price: USD(40)}
	if err := l.Evolve(sell, nil); err != nil {
		t.Fatalf("Evolve(sell) unexpected error: %v", err)
	}

	want := Position{Unexercised: 0, Held: 30, Sold: 120}
	if got := l.Position("JEFF"); got != want {
		t.Errorf("Position(JEFF) = %+v, want %+v", got, want)
	}
	sold := l.Sold(2022)
	if len(sold) != 2 {
		t.Fatalf("len(Sold(2022)) = %d, want 2", len(sold))
	}
	for _, lc := range sold {
		if !lc.Sale.Price.Equal(USD(40)) {
			t.Errorf("sale price = %v, want $40.00", lc.Sale.Price)
		}
		if !lc.Stock.Price.Equal(lc.Option.Price) {
			t.Errorf("stock price = %v, want the strike %v", lc.Stock.Price, lc.Option.Price)
		}
	}
	// the split sold lot is still exercised in 2021, in two parts.
	if got := len(l.Exercised(2021)); got != 3 {
		t.Errorf("len(Exercised(2021)) = %d, want 3", got)
	}
	if got := len(l.Sold(2021)); got != 0 {
		t.Errorf("len(Sold(2021)) = %d, want 0", got)
	}
}

// TestLedger_EvolveErrors checks that a failed Evolve leaves the ledger
// untouched.
func TestLedger_EvolveErrors(t *testing.T) {
	on := date.MustParse("2021-01-31")
	testCases := []struct {
		name  string
		order Order
		want  error
	}{
		{"too many units", Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 151, Date: on, FMV: USD(10)}, ErrInsufficientUnits},
		{"unknown ticker", Order{Action: ExerciseOptions, Ticker: "ACME", Units: 1, Date: on, FMV: USD(10)}, ErrInvalidTransition},
		{"nothing to sell", Order{Action: SellStocks, Ticker: "JEFF", Units: 1, Date: on, Price: USD(10)}, ErrInvalidTransition},
		{"missing fmv", Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 1, Date: on}, ErrInvalidTransition},
		{"no units", Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 0, Date: on, FMV: USD(10)}, ErrInvalidTransition},
		{"grant is not a transition", Order{Action: GrantOption, Ticker: "JEFF", Units: 1, Date: on}, ErrInvalidTransition},
		{"negative price", Order{Action: SellStocks, Ticker: "JEFF", Units: 1, Date: on, Price: USD(-1)}, ErrInvalidTransition},
		{"missing price", Order{Action: SellStocks, Ticker: "JEFF", Units: 1, Date: on}, ErrInvalidTransition},
		{"unknown ordering", Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 1, Date: on, FMV: USD(10), Ordering: Ordering(7)}, ErrInvalidTransition},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var events Events
			l := newTestLedger(t, &events)
			err := l.Evolve(tc.order, &events)
			if !errors.Is(err, tc.want) {
				t.Errorf("Evolve() error = %v, want %v", err, tc.want)
			}
			if got := stocks(l); !slices.Equal(got, []int64{-100, -50}) {
				t.Errorf("Evolve() lots = %v, want untouched [-100 -50]", got)
			}
			if len(events) != 2 {
				t.Errorf("Evolve() recorded %d events, want only the 2 grants", len(events))
			}
		})
	}
}

func TestLedger_GrantErrors(t *testing.T) {
	on := date.MustParse("2021-01-31")
	l := NewLedger()
	if _, err := l.Grant("", USD(1), 10, on, nil); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Errorf("Grant(no ticker) error = %v, want %v", err, ErrInvalidVestingParameters)
	}
	if _, err := l.Grant("JEFF", USD(1), 0, on, nil); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Errorf("Grant(0 units) error = %v, want %v", err, ErrInvalidVestingParameters)
	}
	if _, err := l.Grant("JEFF", USD(-1), 10, on, nil); !errors.Is(err, ErrInvalidVestingParameters) {
		t.Errorf("Grant(negative price) error = %v, want %v", err, ErrInvalidVestingParameters)
	}
	if l.Len() != 0 {
		t.Errorf("Len() = %d, want 0", l.Len())
	}
}

func TestLedger_EvolveToday(t *testing.T) {
	l := newTestLedger(t, nil)
	if err := l.Evolve(Order{Action: ExerciseOptions, Ticker: "JEFF", Units: 10, FMV: USD(10)}, nil); err != nil {
		t.Fatalf("Evolve() unexpected error: %v", err)
	}
	lc := slices.Collect(l.Lifecycles())[0]
	if lc.Stock == nil || lc.Stock.Date.IsZero() {
		t.Errorf("Evolve() without date: stock = %v, want a dated stock", lc.Stock)
	}
}

// TestLedger_UnitConservation runs a sequence of exercises and sales and
// checks that no unit is ever created or lost.
func TestLedger_UnitConservation(t *testing.T) {
	l := NewLedger()
	on := date.MustParse("2020-01-01")
	var granted int64
	for i := range 12 {
		units := int64(10 + 7*i)
		if _, err := l.Grant("JEFF", USD(1+i%3), units, on.AddMonths(i), nil); err != nil {
			t.Fatalf("Grant() unexpected error: %v", err)
		}
		granted += units
	}
	orders := []Order{
		{Action: ExerciseOptions, Units: 33, FMV: USD(5)},
		{Action: ExerciseOptions, Units: 101, FMV: USD(6), Ordering: ByPrice},
		{Action: SellStocks, Units: 17, Price: USD(8)},
		{Action: ExerciseOptions, Units: 9, FMV: USD(7)},
		{Action: SellStocks, Units: 80, Price: USD(9), Ordering: ByPrice},
		{Action: SellStocks, Units: 1000, Price: USD(9)}, // fails
	}
	for i, o := range orders {
		o.Ticker, o.Date = "JEFF", date.MustParse("2022-01-01").AddMonths(i)
		_ = l.Evolve(o, nil)

		if got := l.Units("JEFF", OptionStage); got != granted {
			t.Errorf("after order #%d: option units = %d, want %d", i+1, got, granted)
		}
		if got := l.Position("JEFF").Total(); got != granted {
			t.Errorf("after order #%d: Position().Total() = %d, want %d", i+1, got, granted)
		}
	}
	want := Position{Unexercised: granted - 143, Held: 143 - 97, Sold: 97}
	if got := l.Position("JEFF"); got != want {
		t.Errorf("Position(JEFF) = %+v, want %+v", got, want)
	}
}
