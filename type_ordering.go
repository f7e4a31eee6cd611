package equity

import "fmt"

// Ordering defines which eligible lots are consumed first by an exercise or
// a sale.
type Ordering int

const (
	// ByDate consumes the oldest lot first (First-In, First-Out).
	ByDate Ordering = iota
	// ByPrice consumes the lot with the highest cost basis first, which
	// minimizes the taxable gain of a sale.
	ByPrice
)

func (o Ordering) String() string {
	switch o {
	case ByDate:
		return "date"
	case ByPrice:
		return "price"
	default:
		return "unknown"
	}
}

// ParseOrdering parses a string into an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "date", "fifo", "":
		return ByDate, nil
	case "price":
		return ByPrice, nil
	default:
		return 0, fmt.Errorf("unknown lot ordering: %q", s)
	}
}
