package rebal

import (
	"fmt"
	"math/big"
	"sort"
)

// Allocation is one asset class's slice of the portfolio: its target ratio,
// the holdings currently classified into it, and the contribution (or
// withdrawal) the engine has assigned to it.
type Allocation struct {
	class        AssetClass
	targetRatio  Ratio
	assets       []Asset
	contribution Money
}

// NewAllocation builds an empty allocation for a class.
// A target ratio outside (0, 1] is rejected: every configured class must
// carry positive weight, otherwise deviation is undefined.
func NewAllocation(class AssetClass, target Ratio) (*Allocation, error) {
	if !target.IsPositive() || target.GreaterThan(One()) {
		return nil, fmt.Errorf("%w: %s has %s", ErrInvalidTargetRatio, class, target)
	}
	return &Allocation{class: class, targetRatio: target, contribution: M(0)}, nil
}

// Class returns the asset class this allocation groups.
func (a *Allocation) Class() AssetClass { return a.class }

// TargetRatio returns the fraction of the portfolio this class should hold.
func (a *Allocation) TargetRatio() Ratio { return a.targetRatio }

// Assets returns the underlying holdings in display order.
func (a *Allocation) Assets() []Asset {
	out := make([]Asset, len(a.assets))
	copy(out, a.assets)
	return out
}

// FutureContribution returns the amount the engine assigned to this class.
func (a *Allocation) FutureContribution() Money { return a.contribution }

// CurrentValue sums the underlying holdings.
func (a *Allocation) CurrentValue() Money {
	total := M(0)
	for _, asset := range a.assets {
		total = total.Add(asset.Value)
	}
	return total
}

// FutureValue is the current value plus any assigned contribution.
func (a *Allocation) FutureValue() Money {
	return a.CurrentValue().Add(a.contribution)
}

// PercentHoldings is the share of the grand total this class will hold.
// grandTotal must be non-zero.
func (a *Allocation) PercentHoldings(grandTotal Money) Ratio {
	return a.FutureValue().DivMoney(grandTotal)
}

// Deviation is the signed fractional distance from target, relative to the
// target itself: -0.20 means 20% underweight of its own target. Measuring
// relative to the target is what makes classes of very different sizes
// comparable. grandTotal must be non-zero.
func (a *Allocation) Deviation(grandTotal Money) Ratio {
	return Ratio{value: a.PercentHoldings(grandTotal).value.Div(a.targetRatio.value).Sub(one)}
}

// deviationRat is Deviation as an exact rational:
// futureValue / (grandTotal * targetRatio) - 1.
// The engine sorts and levels on these, where decimal division precision
// would skew comparisons.
func (a *Allocation) deviationRat(grandTotal Money) *big.Rat {
	den := new(big.Rat).Mul(grandTotal.Rat(), a.targetRatio.Rat())
	dev := new(big.Rat).Quo(a.FutureValue().Rat(), den)
	return dev.Sub(dev, ratOne)
}

// AddAsset appends a holding and keeps the list in display order.
// The holding's class must match the allocation's.
func (a *Allocation) AddAsset(asset Asset) error {
	if asset.Class != a.class {
		return fmt.Errorf("%w: cannot add %s asset %q to %s", ErrClassMismatch, asset.Class, asset.Name, a.class)
	}
	a.assets = append(a.assets, asset)
	sortAssets(a.assets)
	return nil
}

// AddContribution accumulates into the future contribution. The engine
// calls it at most once per run, but the operation itself is repeatable.
func (a *Allocation) AddContribution(amount Money) {
	a.contribution = a.contribution.Add(amount)
}

// Portfolio is an ordered point-in-time snapshot of allocations, sorted
// most significant first.
type Portfolio struct {
	allocations []*Allocation
}

// NewPortfolio builds a snapshot from allocations, sorted descending by
// current value for deterministic reporting. The target-ratio sum is not
// validated here; the engine checks it when rebalancing is requested.
func NewPortfolio(allocations []*Allocation) (*Portfolio, error) {
	seen := make(map[AssetClass]bool, len(allocations))
	for _, a := range allocations {
		if seen[a.class] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateClass, a.class)
		}
		seen[a.class] = true
	}
	sorted := make([]*Allocation, len(allocations))
	copy(sorted, allocations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CurrentValue().GreaterThan(sorted[j].CurrentValue())
	})
	return &Portfolio{allocations: sorted}, nil
}

// Allocations returns the allocations, most valuable first.
func (p *Portfolio) Allocations() []*Allocation {
	out := make([]*Allocation, len(p.allocations))
	copy(out, p.allocations)
	return out
}

// CurrentValue sums all holdings across classes.
func (p *Portfolio) CurrentValue() Money {
	total := M(0)
	for _, a := range p.allocations {
		total = total.Add(a.CurrentValue())
	}
	return total
}

// FutureValue is the current value plus all assigned contributions.
func (p *Portfolio) FutureValue() Money {
	total := M(0)
	for _, a := range p.allocations {
		total = total.Add(a.FutureValue())
	}
	return total
}

// SumTargetRatios adds up the target ratios. The engine requires the sum
// to be exactly 1.
func (p *Portfolio) SumTargetRatios() Ratio {
	total := R(0)
	for _, a := range p.allocations {
		total = total.Add(a.targetRatio)
	}
	return total
}

// MinimumAdditionToBalance returns the smallest non-negative deposit that
// brings the most over-allocated class exactly to its target, with no
// withdrawals. Deviation is linear in the grand total for a fixed class
// value, so the answer is closed form: the most overweight class sits at
// target exactly when the total reaches value/targetRatio.
func (p *Portfolio) MinimumAdditionToBalance() Money {
	current := p.CurrentValue()
	if current.IsZero() {
		return M(0)
	}

	var worst *Allocation
	var worstDev *big.Rat
	for _, a := range p.allocations {
		dev := a.deviationRat(current)
		if worstDev == nil || dev.Cmp(worstDev) > 0 {
			worst, worstDev = a, dev
		}
	}

	minTotal := new(big.Rat).Quo(worst.CurrentValue().Rat(), worst.targetRatio.Rat())
	addition := minTotal.Sub(minTotal, current.Rat())
	if addition.Sign() < 0 {
		// every class is at or under target already
		return M(0)
	}
	return M(decimalFromRat(addition))
}
