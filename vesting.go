package equity

import (
	"fmt"

	"github.com/etnz/equity/date"
)

// DefaultVestingMonths is the vesting term used when a Schedule has none.
const DefaultVestingMonths = 48

// Schedule describes a grant of options vesting monthly.
type Schedule struct {
	Ticker string
	Price  Money     // strike price.
	Units  int64     // total units granted.
	Begin  date.Date // first month of vesting.
	Cliff  date.Date // nothing vests before, zero for no cliff.
	Cutoff date.Date // nothing vested after is reported, zero for no cutoff.
	Months int       // vesting term, DefaultVestingMonths if zero.
}

// Chunk is a quantity of options vesting on a date.
type Chunk struct {
	Date  date.Date
	Units int64
}

// Chunks returns the options vested by the schedule, in chronological order.
//
// Units vest monthly from Begin over the term. At the cliff, all units
// accrued since Begin vest at once and the rest vests linearly over the
// remaining months. Units that do not divide evenly go to the earliest
// months. Chunks after Cutoff are dropped: the schedule is a snapshot of what
// has vested by Cutoff. A cliff after the cutoff vests nothing.
func (s Schedule) Chunks() ([]Chunk, error) {
	term := s.Months
	if term == 0 {
		term = DefaultVestingMonths
	}
	if s.Units <= 0 {
		return nil, fmt.Errorf("%w: cannot vest %d units", ErrInvalidVestingParameters, s.Units)
	}
	if term < 0 {
		return nil, fmt.Errorf("%w: vesting term of %d months", ErrInvalidVestingParameters, term)
	}
	if s.Begin.IsZero() {
		return nil, fmt.Errorf("%w: missing vesting start date", ErrInvalidVestingParameters)
	}
	hasCliff, hasCutoff := !s.Cliff.IsZero(), !s.Cutoff.IsZero()
	if hasCliff && s.Cliff.Before(s.Begin) {
		return nil, fmt.Errorf("%w: cliff %v before vesting start %v", ErrInvalidVestingParameters, s.Cliff, s.Begin)
	}
	if hasCliff && hasCutoff && s.Cliff.After(s.Cutoff) {
		return nil, nil
	}

	var chunks []Chunk
	units, begin := s.Units, s.Begin
	if hasCliff && s.Cliff != s.Begin {
		months := date.MonthsBetween(s.Begin, s.Cliff)
		if months > term {
			return nil, fmt.Errorf("%w: cliff %v is %d months after %v, beyond the %d months term", ErrInvalidVestingParameters, s.Cliff, months, s.Begin, term)
		}
		vested := units * int64(months) / int64(term)
		if vested > 0 {
			chunks = append(chunks, Chunk{Date: s.Cliff, Units: vested})
		}
		units -= vested
		term -= months
		begin = s.Cliff
	}
	if term == 0 {
		return chunks, nil
	}

	base, remainder := units/int64(term), units%int64(term)
	for i := range term {
		size := base
		if int64(i) < remainder {
			size++
		}
		on := begin.AddMonths(i)
		if size == 0 || (hasCliff && on.Before(s.Cliff)) || (hasCutoff && on.After(s.Cutoff)) {
			continue
		}
		chunks = append(chunks, Chunk{Date: on, Units: size})
	}
	return chunks, nil
}

// Vested returns the total units of the chunks.
func Vested(chunks []Chunk) int64 {
	var total int64
	for _, c := range chunks {
		total += c.Units
	}
	return total
}
