package equity

import (
	"fmt"
	"slices"

	"github.com/etnz/equity/date"
	"github.com/google/uuid"
)

// Action is the kind of operation recorded in an Event.
type Action int

const (
	GrantOption Action = iota
	ExerciseOptions
	SellStocks
)

func (a Action) String() string {
	switch a {
	case GrantOption:
		return "grant option"
	case ExerciseOptions:
		return "exercise options"
	case SellStocks:
		return "sell stocks"
	default:
		return "unknown"
	}
}

// ParseAction parses an action name. Short forms "grant", "exercise" and
// "sell" are accepted too.
func ParseAction(s string) (Action, error) {
	switch s {
	case "grant option", "grant":
		return GrantOption, nil
	case "exercise options", "exercise":
		return ExerciseOptions, nil
	case "sell stocks", "sell":
		return SellStocks, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, s)
	}
}

// transition is the pair of stages an action moves a lot between.
type transition struct {
	from, to Stage
}

// transitions maps the actions that evolve existing lots.
var transitions = map[Action]transition{
	ExerciseOptions: {from: OptionStage, to: StockStage},
	SellStocks:      {from: StockStage, to: SaleStage},
}

// Event is the immutable audit record of one operation on one lot.
type Event struct {
	Action Action
	Lot    uuid.UUID
	Ticker string
	Price  Money
	Units  int64
	Date   date.Date
	FMV    Money // set for exercises only.
}

// EventSink receives the events produced by the ledger.
type EventSink interface {
	Record(Event)
}

// Events is an in-memory EventSink, in recording order.
type Events []Event

// Record appends e.
func (e *Events) Record(ev Event) { *e = append(*e, ev) }

// Sorted returns a copy of the events in chronological order, events on the
// same day keep their recording order.
func (e Events) Sorted() Events {
	sorted := slices.Clone(e)
	slices.SortStableFunc(sorted, func(a, b Event) int { return a.Date.Compare(b.Date) })
	return sorted
}

// discard is the sink used when the caller passes none.
type discard struct{}

func (discard) Record(Event) {}
