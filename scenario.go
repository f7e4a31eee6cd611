package equity

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"

	"github.com/etnz/equity/date"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Scenario is the declarative description of a portfolio: the household
// filings, the grants and the exercises and sales that happened.
//
//	cash: 13000
//	filings:
//	  2021: {gross_income: 180000, withholdings: 20000, state: california, status: single}
//	grants:
//	  - {ticker: JEFF, price: 2.18, units: 8000, begin: 2019-01-07}
//	actions:
//	  - {action: exercise, ticker: JEFF, units: 2400, date: 2020-12-30, fmv: 15}
//	  - {action: sell, ticker: JEFF, units: 1000, date: 2021-06-30, price: 50}
type Scenario struct {
	Cash    Money              `yaml:"cash" validate:"gte=0"`
	Filings map[int]FilingSpec `yaml:"filings" validate:"dive"`
	Grants  []GrantSpec        `yaml:"grants" validate:"dive"`
	Actions []ActionSpec       `yaml:"actions" validate:"dive"`
}

// FilingSpec is the filing of one year in a Scenario.
type FilingSpec struct {
	GrossIncome      Money  `yaml:"gross_income" validate:"gte=0"`
	Withholdings     Money  `yaml:"withholdings" validate:"gte=0"`
	State            string `yaml:"state" validate:"required"`
	Status           string `yaml:"status" validate:"required,oneof=single married married_separately head_of_household"`
	FederalDeduction *Money `yaml:"federal_deduction" validate:"omitempty,gte=0"`
	StateDeduction   *Money `yaml:"state_deduction" validate:"omitempty,gte=0"`
}

// GrantSpec is a vesting schedule in a Scenario.
type GrantSpec struct {
	Ticker string    `yaml:"ticker" validate:"required"`
	Price  Money     `yaml:"price" validate:"gte=0"`
	Units  int64     `yaml:"units" validate:"gt=0"`
	Begin  date.Date `yaml:"begin" validate:"required"`
	Cliff  date.Date `yaml:"cliff"`
	Cutoff date.Date `yaml:"cutoff"`
	Months int       `yaml:"months" validate:"gte=0"`
}

// ActionSpec is an exercise or a sale in a Scenario.
type ActionSpec struct {
	Action   string    `yaml:"action" validate:"required"`
	Ticker   string    `yaml:"ticker" validate:"required"`
	Units    int64     `yaml:"units" validate:"gt=0"`
	Date     date.Date `yaml:"date"`
	Price    Money     `yaml:"price" validate:"required_if=Action sell,gte=0"`
	FMV      Money     `yaml:"fmv" validate:"required_if=Action exercise,gte=0"`
	Ordering string    `yaml:"ordering" validate:"omitempty,oneof=date fifo price"`
}

// validate is shared, validator.Validate caches struct metadata.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// validate Money as a number and Date as a string empty when zero.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if m, ok := field.Interface().(Money); ok {
			return m.Float64()
		}
		return nil
	}, Money{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(date.Date); ok && !d.IsZero() {
			return d.String()
		}
		return ""
	}, date.Date{})
	return v
}

// DecodeScenario reads and validates a yaml scenario.
func DecodeScenario(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario fields.
func (s *Scenario) Validate() error {
	err := validate.Struct(s)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		return nil
	}
	var errs error
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s: failed %q with %s", fe.Namespace(), fe.Tag(), fe.Param())
		}
		errs = errors.Join(errs, errors.New(msg))
	}
	return fmt.Errorf("%w: %w", ErrInvalidScenario, errs)
}

// Filing returns the filing of year declared by fs.
func (fs FilingSpec) Filing(year int) (Filing, error) {
	status, err := ParseFilingStatus(fs.Status)
	if err != nil {
		return Filing{}, err
	}
	return Filing{
		Year:             year,
		GrossIncome:      fs.GrossIncome,
		Withholdings:     fs.Withholdings,
		State:            fs.State,
		Status:           status,
		FederalDeduction: fs.FederalDeduction,
		StateDeduction:   fs.StateDeduction,
	}, nil
}

// Schedule returns the vesting schedule declared by g.
func (g GrantSpec) Schedule() Schedule {
	return Schedule{
		Ticker: g.Ticker,
		Price:  g.Price,
		Units:  g.Units,
		Begin:  g.Begin,
		Cliff:  g.Cliff,
		Cutoff: g.Cutoff,
		Months: g.Months,
	}
}

// Order returns the order declared by a.
func (a ActionSpec) Order() (Order, error) {
	action, err := ParseAction(a.Action)
	if err != nil {
		return Order{}, err
	}
	ordering, err := ParseOrdering(a.Ordering)
	if err != nil {
		return Order{}, err
	}
	return Order{
		Action:   action,
		Ticker:   a.Ticker,
		Units:    a.Units,
		Date:     a.Date,
		Price:    a.Price,
		FMV:      a.FMV,
		Ordering: ordering,
	}, nil
}

// Portfolio builds the portfolio described by the scenario: filings first,
// then all the grants, then the actions in order.
func (s *Scenario) Portfolio(provider TaxTableProvider) (*Portfolio, error) {
	p := NewPortfolio(provider, s.Cash)
	for _, year := range slices.Sorted(maps.Keys(s.Filings)) {
		f, err := s.Filings[year].Filing(year)
		if err != nil {
			return nil, fmt.Errorf("%w: filing %d: %w", ErrInvalidScenario, year, err)
		}
		p.SetFiling(f)
	}
	for i, g := range s.Grants {
		if _, err := p.GrantSchedule(g.Schedule()); err != nil {
			return nil, fmt.Errorf("grant #%d: %w", i+1, err)
		}
	}
	for i, a := range s.Actions {
		o, err := a.Order()
		if err != nil {
			return nil, fmt.Errorf("action #%d: %w", i+1, err)
		}
		if o.Action == GrantOption {
			return nil, fmt.Errorf("action #%d: %w: grants belong to the grants section", i+1, ErrInvalidTransition)
		}
		if err := p.Evolve(o); err != nil {
			return nil, fmt.Errorf("action #%d: %w", i+1, err)
		}
	}
	return p, nil
}
