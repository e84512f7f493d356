package rebal

import (
	"math/big"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value.
//
// The amount is kept as an arbitrary precision decimal for the whole life of
// the engine; rounding to minor units (cents) happens only in Cents and in
// the formatting helpers, using round-half-even.
type Money struct {
	value decimal.Decimal // in major units
	cur   string
}

// USD is the default currency: the accounting collaborator only surfaces
// holdings priced in US dollars.
const USD = "USD"

// M builds a Money in USD.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value), cur: USD}
}

// NewMoney builds a Money in an explicit currency.
func NewMoney(value decimal.Decimal, currency string) Money {
	return Money{value: value, cur: currency}
}

// ParseMoney parses a decimal amount like "1234.56" into a USD Money.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return M(d), nil
}

// newDecimal is a convenient factory for decimal.Decimal.
func newDecimal[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) decimal.Decimal {
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
	default:
		panic("unsupported type")
	}
}

// currency returns the money's full currency description.
func (m Money) currency() money.Currency {
	// the Money constructor is the only way to get a never-nil currency
	return *money.New(0, m.Currency()).Currency()
}

// Currency returns the currency code.
func (m Money) Currency() string {
	if m.cur == "" {
		return USD
	}
	return m.cur
}

// Decimal returns the exact amount in major units.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Rat returns the exact amount as a rational number.
func (m Money) Rat() *big.Rat { return m.value.Rat() }

// Cents rounds the amount to whole minor units, half-even.
func (m Money) Cents() int64 {
	cur := m.currency()
	return m.value.Shift(int32(cur.Fraction)).RoundBank(0).IntPart()
}

// String formats the amount with its currency symbol, rounded half-even to
// minor units. Display only, never fed back into the engine.
func (m Money) String() string {
	cur := m.currency()
	return cur.Formatter().Format(m.Cents())
}

// SignedString is like String but with an explicit sign, and "-" for zero.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.Currency() == n.Currency() }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// MulRatio scales the amount by an exact ratio. The product stays exact.
func (m Money) MulRatio(r Ratio) Money { return Money{value: m.value.Mul(r.value), cur: m.cur} }

// DivMoney returns the ratio between two amounts, at decimal division
// precision. The engine never divides on its hot path; it compares
// rationals instead.
func (m Money) DivMoney(n Money) Ratio { return Ratio{value: m.value.Div(n.value)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + " != " + b.cur)
	}
	return a.cur
}
