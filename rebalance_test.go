package rebal

import (
	"errors"
	"fmt"
	"testing"
)

// buildPortfolio assembles a portfolio from (class, target, value) rows.
func buildPortfolio(t *testing.T, rows []struct {
	class  AssetClass
	target string
	value  float64
}) *Portfolio {
	t.Helper()
	var allocations []*Allocation
	for _, row := range rows {
		ratio, err := ParseRatio(row.target)
		if err != nil {
			t.Fatal(err)
		}
		a, err := NewAllocation(row.class, ratio)
		if err != nil {
			t.Fatal(err)
		}
		if row.value != 0 {
			if err := a.AddAsset(NewAsset(fmt.Sprintf("%s fund", row.class), M(row.value), row.class)); err != nil {
				t.Fatal(err)
			}
		}
		allocations = append(allocations, a)
	}
	p, err := NewPortfolio(allocations)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// contributionFor finds the contribution assigned to a class.
func contributionFor(t *testing.T, p *Portfolio, class AssetClass) Money {
	t.Helper()
	for _, a := range p.Allocations() {
		if a.Class() == class {
			return a.FutureContribution()
		}
	}
	t.Fatalf("no allocation for %s", class)
	return Money{}
}

func TestOptimallyAllocateDeposit(t *testing.T) {
	// US stocks sit under target, international far under, bonds over.
	// The whole deposit must flow to the underweight classes, leveling
	// them exactly to target.
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.6", 660},
		{IntlStocks, "0.3", 200},
		{USBonds, "0.1", 140},
	})

	if err := OptimallyAllocate(p, M(400)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		class AssetClass
		want  Money
	}{
		{USStocks, M(180)},
		{IntlStocks, M(220)},
		{USBonds, M(0)},
	}
	for _, tc := range tests {
		if got := contributionFor(t, p, tc.class); !got.Equal(tc.want) {
			t.Errorf("%s contribution: got %s, want %s", tc.class, got.Decimal(), tc.want.Decimal())
		}
	}
	if got, want := p.FutureValue(), M(1400); !got.Equal(want) {
		t.Errorf("future value: got %s, want %s", got.Decimal(), want.Decimal())
	}

	// with the deposit fully allocated, every class sits exactly on target
	for _, a := range p.Allocations() {
		if got := a.Deviation(p.FutureValue()); !got.IsZero() {
			t.Errorf("%s deviation after deposit: got %s, want 0", a.Class(), got)
		}
	}
}

func TestOptimallyAllocatePartialDeposit(t *testing.T) {
	// Too small to reach balance: everything goes to the most underweight
	// class and nothing moves backwards.
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.6", 660},
		{IntlStocks, "0.3", 200},
		{USBonds, "0.1", 140},
	})

	if err := OptimallyAllocate(p, M(50)); err != nil {
		t.Fatal(err)
	}

	if got := contributionFor(t, p, IntlStocks); !got.Equal(M(50)) {
		t.Errorf("international contribution: got %s, want 50", got.Decimal())
	}
	for _, class := range []AssetClass{USStocks, USBonds} {
		if got := contributionFor(t, p, class); !got.IsZero() {
			t.Errorf("%s contribution: got %s, want 0", class, got.Decimal())
		}
	}
}

func TestOptimallyAllocateWithdrawal(t *testing.T) {
	// Withdrawals drain the most overweight class first.
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.5", 600},
		{USBonds, "0.5", 400},
	})

	if err := OptimallyAllocate(p, M(-200)); err != nil {
		t.Fatal(err)
	}

	if got := contributionFor(t, p, USStocks); !got.Equal(M(-200)) {
		t.Errorf("stocks contribution: got %s, want -200", got.Decimal())
	}
	if got := contributionFor(t, p, USBonds); !got.IsZero() {
		t.Errorf("bonds contribution: got %s, want 0", got.Decimal())
	}
}

func TestOptimallyAllocateEmptyPortfolio(t *testing.T) {
	// Nothing held yet: the deposit splits proportionally to target.
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.6", 0},
		{IntlStocks, "0.3", 0},
		{USBonds, "0.1", 0},
	})

	if err := OptimallyAllocate(p, M(1000)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		class AssetClass
		want  Money
	}{
		{USStocks, M(600)},
		{IntlStocks, M(300)},
		{USBonds, M(100)},
	}
	for _, tc := range tests {
		if got := contributionFor(t, p, tc.class); !got.Equal(tc.want) {
			t.Errorf("%s contribution: got %s, want %s", tc.class, got.Decimal(), tc.want.Decimal())
		}
	}
}

func TestOptimallyAllocateSingleClass(t *testing.T) {
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USBonds, "1", 0},
	})
	if err := OptimallyAllocate(p, M(1000)); err != nil {
		t.Fatal(err)
	}
	if got := contributionFor(t, p, USBonds); !got.Equal(M(1000)) {
		t.Errorf("bonds contribution: got %s, want 1000", got.Decimal())
	}
}

func TestOptimallyAllocateConservation(t *testing.T) {
	// Awkward values and a ratio set with a non-terminating decimal
	// structure: the assigned amounts must still sum to the contribution
	// exactly, and a deposit must never withdraw from any class.
	for _, contribution := range []Money{M(100.01), M(-77.77)} {
		p := buildPortfolio(t, []struct {
			class  AssetClass
			target string
			value  float64
		}{
			{USStocks, "0.3333", 123.45},
			{IntlStocks, "0.3333", 67.89},
			{USBonds, "0.3334", 210.11},
		})

		if err := OptimallyAllocate(p, contribution); err != nil {
			t.Fatal(err)
		}

		total := M(0)
		for _, a := range p.Allocations() {
			c := a.FutureContribution()
			total = total.Add(c)
			if contribution.IsPositive() && c.IsNegative() {
				t.Errorf("deposit withdrew %s from %s", c.Decimal(), a.Class())
			}
			if contribution.IsNegative() && c.IsPositive() {
				t.Errorf("withdrawal deposited %s into %s", c.Decimal(), a.Class())
			}
		}
		if !total.Equal(contribution) {
			t.Errorf("contributions sum to %s, want exactly %s", total.Decimal(), contribution.Decimal())
		}
	}
}

func TestOptimallyAllocateErrors(t *testing.T) {
	balanced := []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.5", 600},
		{USBonds, "0.5", 400},
	}

	t.Run("zero contribution", func(t *testing.T) {
		p := buildPortfolio(t, balanced)
		if err := OptimallyAllocate(p, M(0)); !errors.Is(err, ErrZeroContribution) {
			t.Errorf("got %v, want ErrZeroContribution", err)
		}
	})

	t.Run("imbalanced targets", func(t *testing.T) {
		p := buildPortfolio(t, []struct {
			class  AssetClass
			target string
			value  float64
		}{
			{USStocks, "0.3", 600},
			{USBonds, "0.3", 400},
		})
		if err := OptimallyAllocate(p, M(100)); !errors.Is(err, ErrImbalancedTargets) {
			t.Errorf("got %v, want ErrImbalancedTargets", err)
		}
	})

	t.Run("withdraw everything", func(t *testing.T) {
		p := buildPortfolio(t, balanced)
		if err := OptimallyAllocate(p, M(-1000)); !errors.Is(err, ErrOverWithdrawal) {
			t.Errorf("got %v, want ErrOverWithdrawal", err)
		}
	})

	t.Run("withdraw more than everything", func(t *testing.T) {
		p := buildPortfolio(t, balanced)
		if err := OptimallyAllocate(p, M(-1000.01)); !errors.Is(err, ErrOverWithdrawal) {
			t.Errorf("got %v, want ErrOverWithdrawal", err)
		}
	})
}

func TestMinimumAdditionToBalance(t *testing.T) {
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.6", 660},
		{IntlStocks, "0.3", 200},
		{USBonds, "0.1", 140},
	})

	// bonds are the most overweight: 140 stops being over 10% of the
	// total exactly when the total reaches 1400
	if got, want := p.MinimumAdditionToBalance(), M(400); !got.Equal(want) {
		t.Errorf("got %s, want %s", got.Decimal(), want.Decimal())
	}

	// deposit the minimum and the portfolio is balanceable to zero deviation
	if err := OptimallyAllocate(p, M(400)); err != nil {
		t.Fatal(err)
	}
	for _, a := range p.Allocations() {
		if got := a.Deviation(p.FutureValue()); !got.IsZero() {
			t.Errorf("%s deviation after minimum deposit: got %s, want 0", a.Class(), got)
		}
	}
}

func TestMinimumAdditionToBalanceAlreadyBalanced(t *testing.T) {
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.5", 500},
		{USBonds, "0.5", 500},
	})
	if got := p.MinimumAdditionToBalance(); !got.IsZero() {
		t.Errorf("got %s, want 0", got.Decimal())
	}
}

func TestMinimumAdditionToBalanceEmpty(t *testing.T) {
	p := buildPortfolio(t, []struct {
		class  AssetClass
		target string
		value  float64
	}{
		{USStocks, "0.6", 0},
		{USBonds, "0.4", 0},
	})
	if got := p.MinimumAdditionToBalance(); !got.IsZero() {
		t.Errorf("got %s, want 0", got.Decimal())
	}
}
