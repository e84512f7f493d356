package rebal

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

var (
	one    = decimal.NewFromInt(1)
	ratOne = big.NewRat(1, 1)
)

// ratScale bounds the decimal expansion of amounts converted back from
// exact rationals. Anything an account can actually absorb terminates well
// before this; the guard only matters for pathological hand-typed ratios.
const ratScale = 28

// decimalFromRat converts an exact rational back to a decimal amount.
// Terminating rationals convert exactly; the rest round half-even at
// ratScale digits.
func decimalFromRat(r *big.Rat) decimal.Decimal {
	if r.IsInt() {
		return decimal.NewFromBigInt(r.Num(), 0)
	}
	return decimal.NewFromBigRat(r, ratScale)
}

// OptimallyAllocate distributes a single signed contribution across the
// portfolio's asset classes so the result deviates as little as possible
// from the target ratios. A positive contribution is a deposit, a negative
// one a withdrawal. On success every affected allocation carries its share
// in FutureContribution, and the shares sum exactly to the contribution.
//
// Deviation as a function of money added to one class is piecewise linear
// in the amount distributed, so the next-worst class can always be
// identified ahead of time and the exact amount needed to reach parity
// with it computed in closed form. No iterative convergence is needed:
// one sort and one linear walk.
//
// The portfolio is annotated in place and must not be shared with another
// rebalancing call.
func OptimallyAllocate(p *Portfolio, contribution Money) error {
	if contribution.IsZero() {
		return ErrZeroContribution
	}
	if !p.SumTargetRatios().Equal(One()) {
		return fmt.Errorf("%w: ratios sum to %s", ErrImbalancedTargets, p.SumTargetRatios())
	}

	currentValue := p.CurrentValue()
	if currentValue.IsNegative() {
		return fmt.Errorf("%w: %s", ErrNegativeBalance, currentValue)
	}
	if contribution.IsNegative() && !contribution.Abs().LessThan(currentValue) {
		return fmt.Errorf("%w: cannot withdraw %s from %s", ErrOverWithdrawal, contribution.Abs(), currentValue)
	}

	if currentValue.IsZero() {
		// Nothing to compare against: deviation math would divide by
		// zero, and proportional funding is the only sensible answer
		// for an empty portfolio.
		for _, a := range p.allocations {
			a.AddContribution(contribution.MulRatio(a.targetRatio))
		}
		return nil
	}

	// The new total is the denominator of every final percent allocation.
	newTotal := currentValue.Add(contribution)

	// Sort by how far each class has deviated from its target, against the
	// hypothetical post-transaction total. Depositing: most underweight
	// first. Withdrawing: most overweight first.
	allocations := p.allocations
	deviations := make([]*big.Rat, len(allocations))
	order := make([]int, len(allocations))
	for i, a := range allocations {
		deviations[i] = a.deviationRat(newTotal)
		order[i] = i
	}
	asc := contribution.IsPositive()
	sortByRat(order, deviations, asc)

	// Walk the sorted classes, leveling each one up (or down) to the
	// deviation of the next, until the contribution is exhausted.
	amountLeft := contribution.Rat()
	summedTargets := new(big.Rat) // sum of newTotal*targetRatio over visited classes
	deviationTarget := new(big.Rat)
	stop := 0

	for k, idx := range order {
		stop = k + 1
		a := allocations[idx]
		deviationTarget = deviations[idx]

		targetValue := new(big.Rat).Mul(newTotal.Rat(), a.targetRatio.Rat())
		summedTargets.Add(summedTargets, targetValue)

		// The deviation every visited class must reach next: the next
		// class in sorted order, or perfect balance if this is the last.
		next := new(big.Rat)
		if k < len(order)-1 {
			next = deviations[order[k+1]]
		}

		// Money required to raise all visited classes exactly to next.
		delta := new(big.Rat).Sub(next, deviationTarget)
		delta.Mul(delta, summedTargets)

		if absRat(delta).Cmp(absRat(amountLeft)) > 0 {
			// Not enough money to reach the next class: spread what is
			// left over the visited classes and stop here.
			part := new(big.Rat).Quo(amountLeft, summedTargets)
			deviationTarget = new(big.Rat).Add(deviationTarget, part)
			amountLeft.SetInt64(0)
		} else {
			amountLeft.Sub(amountLeft, delta)
			deviationTarget = next
		}

		if amountLeft.Sign() == 0 {
			break
		}
	}

	// Each visited class moves from its own deviation to deviationTarget.
	// The first visited class absorbs the exact remainder so the assigned
	// amounts always sum to the contribution.
	assigned := M(0)
	for k := stop - 1; k >= 1; k-- {
		a := allocations[order[k]]
		targetValue := new(big.Rat).Mul(newTotal.Rat(), a.targetRatio.Rat())
		delta := new(big.Rat).Sub(deviationTarget, deviations[order[k]])
		delta.Mul(delta, targetValue)
		amount := M(decimalFromRat(delta))
		a.AddContribution(amount)
		assigned = assigned.Add(amount)
	}
	allocations[order[0]].AddContribution(contribution.Sub(assigned))

	return nil
}

// sortByRat sorts indices by their rational keys, ascending or descending.
// Ties keep the original order so equal deviations stay deterministic.
func sortByRat(order []int, keys []*big.Rat, ascending bool) {
	// insertion sort: the number of asset classes is tiny
	for i := 1; i < len(order); i++ {
		for j := i; j > 0; j-- {
			c := keys[order[j]].Cmp(keys[order[j-1]])
			if (ascending && c < 0) || (!ascending && c > 0) {
				order[j], order[j-1] = order[j-1], order[j]
			} else {
				break
			}
		}
	}
}

func absRat(r *big.Rat) *big.Rat { return new(big.Rat).Abs(r) }
