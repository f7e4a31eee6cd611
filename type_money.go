package equity

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// number lists the Go types accepted by the Money and Rate factories.
type number interface {
	float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T number](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// Money represents an exact amount of US dollars.
//
// All amounts handled by this package are in USD, multi-currency is out of
// scope. The zero value is $0.00.
type Money struct {
	value decimal.Decimal // as major unit value
}

// USD returns an amount of dollars.
func USD[T number](value T) Money { return Money{value: newDecimal(value)} }

// ParseMoney parses a decimal amount like "2.18".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{value: d}, nil
}

// String returns the amount formatted in dollars and cents, like $1,234.56.
func (m Money) String() string {
	cur := money.GetCurrency(money.USD)
	cents := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(cents.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Decimal() decimal.Decimal      { return m.value }
func (m Money) Equal(n Money) bool            { return m.value.Equal(n.value) }
func (m Money) Cmp(n Money) int               { return m.value.Cmp(n.value) }
func (m Money) IsZero() bool                  { return m.value.IsZero() }
func (m Money) IsPositive() bool              { return m.value.IsPositive() }
func (m Money) IsNegative() bool              { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool         { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool      { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                    { return Money{value: m.value.Neg()} }
func (m Money) Add(n Money) Money             { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money             { return Money{value: m.value.Sub(n.value)} }
func (m Money) Times(units int64) Money       { return Money{value: m.value.Mul(decimal.NewFromInt(units))} }
func (m Money) MulRate(r Rate) Money          { return Money{value: m.value.Mul(r.value)} }
func (m Money) Round(places int32) Money      { return Money{value: m.value.Round(places)} }
func (m Money) Float64() float64              { return m.value.InexactFloat64() }
func (m Money) Min(n Money) Money             { return Money{value: decimal.Min(m.value, n.value)} }
func (m Money) Max(n Money) Money             { return Money{value: decimal.Max(m.value, n.value)} }
func (m Money) MarshalJSON() ([]byte, error)  { return m.value.MarshalJSON() }
func (m *Money) UnmarshalJSON(b []byte) error { return m.value.UnmarshalJSON(b) }

// UnmarshalYAML reads an amount from a yaml scalar like 2.18 or "13_000".
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", value.Line)
	}
	v, err := ParseMoney(strings.ReplaceAll(value.Value, "_", ""))
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*m = v
	return nil
}

// Rate is a fraction, typically a marginal tax rate in [0,1].
type Rate struct {
	value decimal.Decimal
}

// Percent returns the rate p/100: Percent(6.2) is 0.062.
func Percent[T number](p T) Rate { return Rate{value: newDecimal(p).Div(decimal.NewFromInt(100))} }

// Fraction returns the rate f: Fraction(0.062) is 6.2%.
func Fraction[T number](f T) Rate { return Rate{value: newDecimal(f)} }

func (r Rate) Decimal() decimal.Decimal { return r.value }
func (r Rate) Equal(q Rate) bool        { return r.value.Equal(q.value) }
func (r Rate) IsZero() bool             { return r.value.IsZero() }

// String returns the rate as a percentage with two decimals, like 6.20%.
func (r Rate) String() string {
	return r.value.Shift(2).StringFixed(2) + "%"
}
