package rebal

import (
	"fmt"
	"math"

	"github.com/mkrall/rebal/date"
	"github.com/shopspring/decimal"
)

// bankingYears returns the calendar years between two dates, the way APY is
// paid: years with 366 days earn the same annual interest as years with 365.
func bankingYears(earlier, later date.Date) (float64, error) {
	if !earlier.Before(later) {
		return 0, fmt.Errorf("dates must be in order: %s is not before %s", earlier, later)
	}
	return float64(earlier.DaysUntil(later)) / 365.25, nil
}

// Compound grows a principal at a given APY from now until the end date.
//
// This is a rough projection for display only: the multiplier is computed
// in floating point and the result truncated to cents, so it never feeds
// back into the exact-decimal engine.
func Compound(principal Money, apy float64, until date.Date) (Money, error) {
	years, err := bankingYears(date.Today(), until)
	if err != nil {
		return Money{}, err
	}
	multiplier := math.Pow(apy+1.0, years)
	cents := int64(principal.Decimal().InexactFloat64() * multiplier * 100)
	return NewMoney(decimal.New(cents, -2), principal.Currency()), nil
}

// SafeWithdrawalIncome is the annual income a principal can sustain in
// perpetuity under the 4% rule.
func SafeWithdrawalIncome(principal Money) Money {
	return principal.MulRatio(R(decimal.New(4, -2)))
}
