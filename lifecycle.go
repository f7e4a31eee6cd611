package equity

import (
	"github.com/etnz/equity/date"
	"github.com/google/uuid"
)

// Asset is the state of a lot at one stage of its lifecycle.
//
// Assets are values: a transition always builds a new one.
type Asset struct {
	Price Money     // unit price: strike for options and stocks, sale price for sales.
	Units int64     // always positive.
	Date  date.Date // effective date of this state.
	FMV   Money     // fair market value per unit at exercise, zero otherwise.
}

// Cost returns the total amount Price * Units.
func (a Asset) Cost() Money { return a.Price.Times(a.Units) }

// Stage identifies one of the three states of a lot.
type Stage int

const (
	OptionStage Stage = iota // granted option.
	StockStage               // exercised stock.
	SaleStage                // sold stock.
)

func (s Stage) String() string {
	switch s {
	case OptionStage:
		return "option"
	case StockStage:
		return "stock"
	case SaleStage:
		return "sale"
	default:
		return "unknown"
	}
}

// Lifecycle tracks one indivisible tranche of units from grant to sale.
//
// Sale is set only if Stock is set, and every present stage holds the same
// number of units. A partial exercise or sale never partially fills a
// Lifecycle: it is split in two first.
type Lifecycle struct {
	ID     uuid.UUID
	Ticker string
	Option Asset
	Stock  *Asset
	Sale   *Asset
}

// Stage returns the asset at stage s, or nil if the lot has not reached it.
func (l *Lifecycle) Stage(s Stage) *Asset {
	switch s {
	case OptionStage:
		return &l.Option
	case StockStage:
		return l.Stock
	case SaleStage:
		return l.Sale
	default:
		return nil
	}
}

// set stores a at stage s.
func (l *Lifecycle) set(s Stage, a Asset) {
	switch s {
	case OptionStage:
		l.Option = a
	case StockStage:
		l.Stock = &a
	case SaleStage:
		l.Sale = &a
	}
}

// Units returns the number of units in this lot.
func (l Lifecycle) Units() int64 { return l.Option.Units }

// clone returns a deep copy of l, assets are not shared.
func (l Lifecycle) clone() Lifecycle {
	if l.Stock != nil {
		s := *l.Stock
		l.Stock = &s
	}
	if l.Sale != nil {
		s := *l.Sale
		l.Sale = &s
	}
	return l
}

// split partitions l into a head of 'units' units and a tail holding the
// rest. All fields but the units are preserved, the tail gets a new ID.
func (l Lifecycle) split(units int64) (head, tail Lifecycle) {
	head, tail = l.clone(), l.clone()
	rest := l.Units() - units
	for s := OptionStage; s <= SaleStage; s++ {
		if a := head.Stage(s); a != nil {
			a.Units = units
		}
		if a := tail.Stage(s); a != nil {
			a.Units = rest
		}
	}
	tail.ID = uuid.New()
	return head, tail
}
