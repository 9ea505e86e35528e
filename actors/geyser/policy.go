package geyser

import (
	"github.com/filecoin-project/go-state-types/big"
)

// Params are the construction-time tunables of spec §4.7, validated once at
// construction the way the teacher validates vesting.RewardVestingSpec's
// fields before any state references it.
type Params struct {
	MaxUnlockSchedules    int
	StartBonusPermille    int64
	BonusPeriodSeconds    int64
	InitialSharesPerToken big.Int
}

// Validate enforces spec §4.7's two construction invariants, plus the
// structural bounds a negative or zero configuration would otherwise let
// through silently.
func (p Params) Validate() error {
	if p.StartBonusPermille > 100 || p.StartBonusPermille < 0 {
		return ErrStartBonusTooHigh
	}
	if p.BonusPeriodSeconds <= 0 {
		return ErrBonusPeriodZero
	}
	if p.MaxUnlockSchedules <= 0 {
		return ErrScheduleLimit
	}
	return nil
}
