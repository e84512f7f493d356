package rebal

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Ratio is an exact decimal fraction of the whole portfolio, used for target
// allocations and deviation scores. Target ratios are hand-authored exact
// values, so equality is exact decimal equality with no epsilon.
type Ratio struct {
	value decimal.Decimal
}

// R builds a Ratio.
func R[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Ratio {
	return Ratio{value: newDecimal(value)}
}

// One is the ratio of a fully allocated portfolio.
func One() Ratio { return Ratio{value: decimal.NewFromInt(1)} }

// ParseRatio parses a target ratio in any of the forms found in allocation
// tables: a plain decimal ("0.45"), a percentage ("45%"), or an exact
// fraction ("9/20").
func ParseRatio(s string) (Ratio, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasSuffix(s, "%"):
		d, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		return Ratio{value: d.Shift(-2)}, nil
	case strings.Contains(s, "/"):
		d, err := ParseFraction(s)
		if err != nil {
			return Ratio{}, err
		}
		return Ratio{value: d}, nil
	default:
		d, err := decimal.NewFromString(s)
		if err != nil {
			return Ratio{}, fmt.Errorf("invalid ratio %q: %w", s, err)
		}
		return Ratio{value: d}, nil
	}
}

// ParseFraction parses a "num/denom" pair into its decimal quotient.
// This is the form quantities and prices take in the accounting store.
func ParseFraction(s string) (decimal.Decimal, error) {
	num, denom, ok := strings.Cut(s, "/")
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("cannot parse %q to a decimal quantity", s)
	}
	dnum, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid numerator in %q: %w", s, err)
	}
	ddenom, err := decimal.NewFromString(strings.TrimSpace(denom))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid denominator in %q: %w", s, err)
	}
	if ddenom.IsZero() {
		return decimal.Decimal{}, fmt.Errorf("zero denominator in %q", s)
	}
	return dnum.Div(ddenom), nil
}

// Decimal returns the exact underlying value.
func (r Ratio) Decimal() decimal.Decimal { return r.value }

// Rat returns the exact value as a rational number.
func (r Ratio) Rat() *big.Rat { return r.value.Rat() }

func (r Ratio) Equal(q Ratio) bool       { return r.value.Equal(q.value) }
func (r Ratio) LessThan(q Ratio) bool    { return r.value.LessThan(q.value) }
func (r Ratio) GreaterThan(q Ratio) bool { return r.value.GreaterThan(q.value) }
func (r Ratio) IsZero() bool             { return r.value.IsZero() }
func (r Ratio) IsPositive() bool         { return r.value.IsPositive() }
func (r Ratio) IsNegative() bool         { return r.value.IsNegative() }

func (r Ratio) Add(q Ratio) Ratio { return Ratio{value: r.value.Add(q.value)} }
func (r Ratio) Sub(q Ratio) Ratio { return Ratio{value: r.value.Sub(q.value)} }
func (r Ratio) Mul(q Ratio) Ratio { return Ratio{value: r.value.Mul(q.value)} }

// String renders the ratio as a plain decimal, e.g. "0.45".
func (r Ratio) String() string { return r.value.String() }

// Percent renders the ratio as a percentage, e.g. "45.00%".
func (r Ratio) Percent() string {
	return r.value.Shift(2).StringFixed(2) + "%"
}

// SignedPercent is like Percent with an explicit sign, and "-" for zero.
func (r Ratio) SignedPercent() string {
	if r.value.IsZero() {
		return "-"
	}
	if r.value.IsPositive() {
		return "+" + r.Percent()
	}
	return r.Percent()
}
