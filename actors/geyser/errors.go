package geyser

import "golang.org/x/xerrors"

// The error taxonomy of spec §7. Every value here is terminal for the
// operation that produced it: the engine never retries and never leaves
// partial state behind a failed call (§5). Callers distinguish these with
// errors.Is; the teacher's actors play the same role with exitcode.ExitCode,
// but there is no VM dispatcher here to carry a code back through.
var (
	// Input validation.
	ErrZeroAmount        = xerrors.New("amount must be positive")
	ErrBeneficiaryIsNull = xerrors.New("beneficiary must not be the null address")
	ErrStartBonusTooHigh = xerrors.New("start bonus permille exceeds 100")
	ErrBonusPeriodZero   = xerrors.New("bonus period must be positive")
	ErrScheduleLimit     = xerrors.New("maximum number of unlock schedules reached")

	// Resource: an amount too small to round to a nonzero share quantity.
	ErrStakeTooSmall   = xerrors.New("stake too small to mint any shares")
	ErrUnstakeTooSmall = xerrors.New("unstake too small to burn any shares")

	// Balance.
	ErrUnstakeExceedsBalance = xerrors.New("unstake amount exceeds staked balance")

	// Authorization.
	ErrNotOwner = xerrors.New("caller is not the owner")
)
