package geyser

import "github.com/filecoin-project/go-state-types/big"

// UnlockSchedule is a linear-release specification for a quantity of
// distribution shares over a duration, as described in spec §3/§4.3. Once
// created it persists forever, even after it has fully unlocked, so that
// UnlockScheduleAt indices stay stable (spec §3 "Lifecycles").
type UnlockSchedule struct {
	InitialLockedShares big.Int
	UnlockedShares      big.Int
	LastUnlockTs        int64
	EndTs               int64
	DurationSeconds     int64
}

func newUnlockSchedule(initialLockedShares big.Int, now, durationSeconds int64) *UnlockSchedule {
	return &UnlockSchedule{
		InitialLockedShares: initialLockedShares,
		UnlockedShares:      big.Zero(),
		LastUnlockTs:        now,
		EndTs:               now + durationSeconds,
		DurationSeconds:     durationSeconds,
	}
}

// evaluate advances the schedule to now and returns the number of shares
// newly unlocked, implementing spec §4.3. Once now reaches EndTs it always
// releases exactly the remainder rather than continuing the linear formula,
// which would truncate a few units of dust on every tick and never fully
// unlock (spec §4.3's "remainder branch is essential").
func (s *UnlockSchedule) evaluate(now int64) big.Int {
	if now <= s.LastUnlockTs {
		return big.Zero()
	}

	var delta big.Int
	if now >= s.EndTs {
		delta = big.Sub(s.InitialLockedShares, s.UnlockedShares)
		s.LastUnlockTs = s.EndTs
	} else {
		elapsed := big.NewInt(now - s.LastUnlockTs)
		duration := big.NewInt(s.DurationSeconds)
		delta = big.Div(big.Mul(s.InitialLockedShares, elapsed), duration)
		s.LastUnlockTs = now
	}

	if delta.LessThan(big.Zero()) {
		delta = big.Zero()
	}
	s.UnlockedShares = big.Add(s.UnlockedShares, delta)
	return delta
}
