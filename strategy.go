package rebal

import (
	"fmt"

	"github.com/mkrall/rebal/date"
	"github.com/shopspring/decimal"
)

// ageInWeeks counts the full weeks lived since a birthday.
func ageInWeeks(birthday, today date.Date) (int, error) {
	if !birthday.Before(today) {
		return 0, fmt.Errorf("birthday %s is not in the past", birthday)
	}
	return birthday.DaysUntil(today) / 7, nil
}

// BondAllocation derives a bond ratio from the "your age in bonds" principle.
//
// "Own your age" in bonds keeps risk preference gradually more conservative
// as retirement approaches: a 45 year old holds 45% bonds. The fromYears
// knob relaxes that: "110 minus your age in stocks" (fromYears=110) is more
// risk-prone, 120 even more so.
//
// Age is resolved to the week rather than the year, so the allocation
// drifts gradually through the year instead of jumping on each birthday.
// The result is clamped to [0, 1]: very young investors would otherwise get
// a negative bond ratio, very old ones more than 100%.
func BondAllocation(birthday date.Date, fromYears int) (Ratio, error) {
	weeks, err := ageInWeeks(birthday, date.Today())
	if err != nil {
		return Ratio{}, err
	}
	age := decimal.NewFromInt(int64(weeks)).Div(decimal.NewFromInt(52))

	// stock share in years, e.g. 120 - 34.25 = 85.75, rounded to the week
	// and rescaled to a ratio
	stocks := decimal.NewFromInt(int64(fromYears)).Sub(age).RoundBank(2).Shift(-2)

	if stocks.IsNegative() {
		return One(), nil
	}
	if stocks.GreaterThan(one) {
		return R(0), nil
	}
	return One().Sub(Ratio{value: stocks}), nil
}

// CoreFour returns a target allocation based on Rick Ferri's "Core Four"
// lazy portfolio: after the bond share, the remaining stock funds split
// between US total market, US small/mid cap, international, and REIT.
//
// The US share is itself split so that large cap never exceeds half of the
// US stock total: total-market funds run roughly 75% large cap, so holding
// $1 of small/mid for every $2 of total market restores the balance. That
// gives 33/17 instead of a plain 50.
//
// Classes whose resulting ratio is zero are omitted (an all-bond investor
// gets a single USBonds allocation), so the returned ratios always sum to
// exactly 1.
func CoreFour(bonds Ratio) ([]*Allocation, error) {
	if bonds.IsNegative() {
		return nil, fmt.Errorf("%w: bond ratio %s is negative", ErrInvalidTargetRatio, bonds)
	}
	if bonds.GreaterThan(One()) {
		return nil, fmt.Errorf("%w: bond ratio %s exceeds 100%%", ErrInvalidTargetRatio, bonds)
	}

	stocks := One().Sub(bonds)
	split := []struct {
		class AssetClass
		ratio Ratio
	}{
		{USBonds, bonds},
		{USStocks, R(decimal.New(33, -2)).Mul(stocks)},
		{USSmall, R(decimal.New(17, -2)).Mul(stocks)},
		{IntlStocks, R(decimal.New(40, -2)).Mul(stocks)},
		{REIT, R(decimal.New(10, -2)).Mul(stocks)},
	}

	var allocations []*Allocation
	for _, s := range split {
		if s.ratio.IsZero() {
			continue
		}
		a, err := NewAllocation(s.class, s.ratio)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, nil
}
