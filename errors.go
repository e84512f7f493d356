package rebal

import "errors"

// The rebalancing engine fails fast: every error below is a precondition
// violation (bad configuration or bad operator input), never a transient
// condition. Callers are expected to fix the input, not retry.
var (
	// ErrClassMismatch reports an asset added to an allocation of a
	// different asset class.
	ErrClassMismatch = errors.New("asset class does not match allocation class")

	// ErrImbalancedTargets reports target ratios that do not sum to
	// exactly 1.
	ErrImbalancedTargets = errors.New("target ratios must sum to exactly 100%")

	// ErrZeroContribution reports a rebalancing request with nothing to
	// deposit or withdraw.
	ErrZeroContribution = errors.New("must deposit or withdraw in order to rebalance")

	// ErrOverWithdrawal reports a withdrawal larger than the portfolio.
	ErrOverWithdrawal = errors.New("withdrawal exceeds current portfolio value")

	// ErrNegativeBalance reports a portfolio whose current value is
	// negative. Well-formed holdings can never produce one.
	ErrNegativeBalance = errors.New("current portfolio value is negative")

	// ErrInvalidTargetRatio reports a target ratio outside (0, 1].
	ErrInvalidTargetRatio = errors.New("target ratio must be in (0, 1]")

	// ErrDuplicateClass reports two allocations sharing an asset class.
	ErrDuplicateClass = errors.New("duplicate asset class in portfolio")
)
