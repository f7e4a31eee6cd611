package equity

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/etnz/equity/date"
	"github.com/google/uuid"
)

// Ledger holds the lifecycles of all the lots granted.
//
// Lifecycles are stored by ID and consumed in the order of the ledger index:
// insertion order, with the tail of a split lot right after its head. A Ledger
// is not safe for concurrent use.
type Ledger struct {
	lots  map[uuid.UUID]*Lifecycle
	order []uuid.UUID
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		lots:  make(map[uuid.UUID]*Lifecycle),
		order: make([]uuid.UUID, 0),
	}
}

// Order describes an exercise or a sale.
type Order struct {
	Action   Action    // ExerciseOptions or SellStocks.
	Ticker   string
	Units    int64     // number of units to exercise or sell.
	Date     date.Date // today if zero.
	Price    Money     // sale price per unit, required for sales.
	FMV      Money     // fair market value per unit, required for exercises.
	Ordering Ordering  // which lots go first.
}

// Grant records a new option lot and returns its ID.
func (l *Ledger) Grant(ticker string, price Money, units int64, on date.Date, sink EventSink) (uuid.UUID, error) {
	if ticker == "" {
		return uuid.Nil, fmt.Errorf("%w: missing ticker", ErrInvalidVestingParameters)
	}
	if units <= 0 {
		return uuid.Nil, fmt.Errorf("%w: cannot grant %d units of %s", ErrInvalidVestingParameters, units, ticker)
	}
	if price.IsNegative() {
		return uuid.Nil, fmt.Errorf("%w: negative strike price %v for %s", ErrInvalidVestingParameters, price, ticker)
	}
	if sink == nil {
		sink = discard{}
	}
	lc := &Lifecycle{
		ID:     uuid.New(),
		Ticker: ticker,
		Option: Asset{Price: price, Units: units, Date: on},
	}
	l.lots[lc.ID] = lc
	l.order = append(l.order, lc.ID)
	sink.Record(Event{Action: GrantOption, Lot: lc.ID, Ticker: ticker, Price: price, Units: units, Date: on})
	return lc.ID, nil
}

// candidate is an eligible lifecycle and its position in the ledger index.
type candidate struct {
	pos int
	lc  *Lifecycle
}

// candidates returns the lots of ticker that can make transition t, sorted
// according to ordering, and the total of their units.
func (l *Ledger) candidates(ticker string, t transition, ordering Ordering) ([]candidate, int64) {
	var cs []candidate
	var total int64
	for pos, id := range l.order {
		lc := l.lots[id]
		if lc.Ticker != ticker || lc.Stage(t.from) == nil || lc.Stage(t.to) != nil {
			continue
		}
		cs = append(cs, candidate{pos, lc})
		total += lc.Units()
	}
	// stable: equal keys keep the ledger order.
	switch ordering {
	case ByDate:
		sort.SliceStable(cs, func(i, j int) bool {
			return cs[i].lc.Stage(t.from).Date.Before(cs[j].lc.Stage(t.from).Date)
		})
	case ByPrice:
		sort.SliceStable(cs, func(i, j int) bool {
			return cs[i].lc.Stage(t.from).Price.GreaterThan(cs[j].lc.Stage(t.from).Price)
		})
	}
	return cs, total
}

// validate checks o against the ledger. It returns the transition and the
// ordered candidates to consume.
func (l *Ledger) validate(o Order) (transition, []candidate, error) {
	t, ok := transitions[o.Action]
	if !ok {
		return t, nil, fmt.Errorf("%w: cannot evolve lots with action %q", ErrInvalidTransition, o.Action)
	}
	if o.Units <= 0 {
		return t, nil, fmt.Errorf("%w: cannot %s %d units of %s", ErrInvalidTransition, o.Action, o.Units, o.Ticker)
	}
	switch o.Action {
	case ExerciseOptions:
		if !o.FMV.IsPositive() {
			return t, nil, fmt.Errorf("%w: exercise of %s requires a fair market value", ErrInvalidTransition, o.Ticker)
		}
	case SellStocks:
		if !o.Price.IsPositive() {
			return t, nil, fmt.Errorf("%w: sale of %s requires a positive price, got %v", ErrInvalidTransition, o.Ticker, o.Price)
		}
	}
	if o.Ordering != ByDate && o.Ordering != ByPrice {
		return t, nil, fmt.Errorf("%w: unknown ordering %v", ErrInvalidTransition, o.Ordering)
	}
	cs, available := l.candidates(o.Ticker, t, o.Ordering)
	if len(cs) == 0 {
		return t, nil, fmt.Errorf("%w: no %s of %s can %s", ErrInvalidTransition, t.from, o.Ticker, o.Action)
	}
	if available < o.Units {
		return t, nil, fmt.Errorf("%w: cannot %s %d units of %s, only %d available", ErrInsufficientUnits, o.Action, o.Units, o.Ticker, available)
	}
	return t, cs, nil
}

// Evolve exercises options or sells stocks.
//
// Eligible lots are consumed in o.Ordering order until o.Units units have
// moved to the next stage. A lot larger than what remains to consume is
// split: its head moves, its tail stays right after it in the ledger. One
// event per lot moved is sent to sink.
//
// Evolve is atomic: on error the ledger is left untouched.
func (l *Ledger) Evolve(o Order, sink EventSink) error {
	if o.Date.IsZero() {
		o.Date = date.Today()
	}
	t, cs, err := l.validate(o)
	if err != nil {
		return err
	}
	if sink == nil {
		sink = discard{}
	}

	remaining := o.Units
	for _, c := range cs {
		lc := c.lc
		if lc.Units() > remaining {
			// only the last lot consumed can be split, so c.pos is still
			// the head position.
			head, tail := lc.split(remaining)
			*lc = head
			l.lots[tail.ID] = &tail
			l.order = slices.Insert(l.order, c.pos+1, tail.ID)
		}
		src := lc.Stage(t.from)
		dst := Asset{Price: src.Price, Units: src.Units, Date: o.Date}
		switch o.Action {
		case ExerciseOptions:
			dst.FMV = o.FMV
		case SellStocks:
			dst.Price = o.Price
		}
		lc.set(t.to, dst)
		sink.Record(Event{Action: o.Action, Lot: lc.ID, Ticker: lc.Ticker, Price: dst.Price, Units: dst.Units, Date: dst.Date, FMV: dst.FMV})

		remaining -= dst.Units
		if remaining == 0 {
			break
		}
	}
	return nil
}

// Lifecycles returns an iterator over copies of the lifecycles in ledger order.
func (l *Ledger) Lifecycles() iter.Seq[Lifecycle] {
	return func(yield func(Lifecycle) bool) {
		for _, id := range l.order {
			if !yield(l.lots[id].clone()) {
				return
			}
		}
	}
}

// Lifecycle returns a copy of the lifecycle with this id.
func (l *Ledger) Lifecycle(id uuid.UUID) (Lifecycle, bool) {
	lc, ok := l.lots[id]
	if !ok {
		return Lifecycle{}, false
	}
	return lc.clone(), true
}

// Len returns the number of lifecycles in the ledger.
func (l *Ledger) Len() int { return len(l.order) }

// Tickers returns the sorted list of tickers with at least one lot.
func (l *Ledger) Tickers() []string {
	set := make(map[string]struct{})
	for _, lc := range l.lots {
		set[lc.Ticker] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Units returns the total units of ticker that have reached stage s.
func (l *Ledger) Units(ticker string, s Stage) int64 {
	var total int64
	for _, lc := range l.lots {
		if lc.Ticker == ticker && lc.Stage(s) != nil {
			total += lc.Units()
		}
	}
	return total
}

// Position is the split of a ticker's units by current stage.
type Position struct {
	Unexercised int64 // options not exercised yet.
	Held        int64 // stocks not sold yet.
	Sold        int64
}

// Total returns the number of units ever granted.
func (p Position) Total() int64 { return p.Unexercised + p.Held + p.Sold }

// Position returns the current position in ticker.
func (l *Ledger) Position(ticker string) Position {
	var p Position
	for _, lc := range l.lots {
		if lc.Ticker != ticker {
			continue
		}
		switch {
		case lc.Sale != nil:
			p.Sold += lc.Units()
		case lc.Stock != nil:
			p.Held += lc.Units()
		default:
			p.Unexercised += lc.Units()
		}
	}
	return p
}

// reachedIn returns the lifecycles, in ledger order, whose stage s is dated in year.
func (l *Ledger) reachedIn(s Stage, year int) []Lifecycle {
	var res []Lifecycle
	for lc := range l.Lifecycles() {
		if a := lc.Stage(s); a != nil && a.Date.Year() == year {
			res = append(res, lc)
		}
	}
	return res
}

// Sold returns the lifecycles sold in year.
func (l *Ledger) Sold(year int) []Lifecycle { return l.reachedIn(SaleStage, year) }

// Exercised returns the lifecycles exercised in year.
func (l *Ledger) Exercised(year int) []Lifecycle { return l.reachedIn(StockStage, year) }
