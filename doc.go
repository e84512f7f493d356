// Package rebal computes how to rebalance a portfolio of asset-class
// holdings toward a target allocation.
//
// Given the current holdings per asset class and a target ratio table
// summing to exactly 100%, the engine answers two questions:
//
//   - How should a single lump sum (a deposit or a withdrawal) be spread
//     across classes so the portfolio ends as close to target as possible?
//     See OptimallyAllocate.
//   - What is the smallest deposit that brings every class to or above its
//     target share without selling anything? See
//     Portfolio.MinimumAdditionToBalance.
//
// All money and ratio arithmetic is exact base-10 decimal; the engine
// additionally levels deviations with exact rational arithmetic so that
// sort order and conservation never depend on division precision. Rounding
// to cents (half-even) happens only at display and persistence boundaries.
//
// The package also carries the surrounding, non-algorithmic pieces of the
// tool: age-based target strategies (BondAllocation, CoreFour), retirement
// projections (Compound, SafeWithdrawalIncome), and the operator
// configuration. Extracting holdings from a GnuCash book and fetching live
// quotes live in the gnucash and quote subpackages.
//
// This package is the foundational logic for the `rebal` command-line
// tool.
package rebal
