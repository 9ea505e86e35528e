package geyser

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"golang.org/x/xerrors"
)

// State is the global accounting state of spec §3. It holds nothing but
// share counts, timestamps and the stake journal — never a token amount —
// so that a rebase of the staking asset cannot desynchronize it (spec §9).
//
// This mirrors how the teacher's vesting.State holds only LockedFunds and a
// map of per-coinbase VestingFunds, never a raw balance: every token-facing
// quantity is derived lazily from a live balance read.
type State struct {
	Params Params

	TotalStakingShares       big.Int
	TotalLockedShares        big.Int
	TotalUnlockedShares      big.Int
	TotalStakingShareSeconds big.Int
	LastAccountingTs         int64

	Schedules []*UnlockSchedule
	Users     map[addr.Address]*UserTotals
}

// ConstructState builds a fresh, empty geyser state, implementing spec
// §4.7's constructor validation before any state is referenced, exactly as
// vesting.ConstructState front-loads its own setup.
func ConstructState(params Params, now int64) (*State, error) {
	if err := params.Validate(); err != nil {
		return nil, xerrors.Errorf("invalid params: %w", err)
	}
	return &State{
		Params:                   params,
		TotalStakingShares:       big.Zero(),
		TotalLockedShares:        big.Zero(),
		TotalUnlockedShares:      big.Zero(),
		TotalStakingShareSeconds: big.Zero(),
		LastAccountingTs:         now,
		Users:                    make(map[addr.Address]*UserTotals),
	}, nil
}

// getOrCreateUser implements the lazy-creation lifecycle of spec §3:
// UserTotals springs into existence the first time an address stakes (or is
// staked for) or calls UpdateAccounting, and is retained forever afterwards.
func (st *State) getOrCreateUser(a addr.Address, now int64) *UserTotals {
	u, ok := st.Users[a]
	if !ok {
		u = newUserTotals(now)
		st.Users[a] = u
	}
	return u
}

// refresh implements spec §4.2: it unlocks newly-vested distribution shares
// across every schedule, advances the global share-seconds accumulator, and
// — if user is non-nil — advances that user's share-seconds too. It returns
// the total distribution shares unlocked this call; it emits no event itself
// (UpdateAccounting uses the result to decide whether to emit TokensUnlocked).
func (st *State) refresh(now int64, user *UserTotals) big.Int {
	unlockedThisTick := big.Zero()
	for _, s := range st.Schedules {
		unlockedThisTick = big.Add(unlockedThisTick, s.evaluate(now))
	}
	if unlockedThisTick.GreaterThan(big.Zero()) {
		st.TotalLockedShares = big.Sub(st.TotalLockedShares, unlockedThisTick)
		st.TotalUnlockedShares = big.Add(st.TotalUnlockedShares, unlockedThisTick)
	}

	if now > st.LastAccountingTs {
		elapsed := big.NewInt(now - st.LastAccountingTs)
		st.TotalStakingShareSeconds = big.Add(st.TotalStakingShareSeconds, big.Mul(st.TotalStakingShares, elapsed))
	}
	st.LastAccountingTs = now

	if user != nil {
		user.advanceShareSeconds(now)
	}

	return unlockedThisTick
}

// totalDistributionShares is the conversion denominator for the
// distribution pool's share↔token rate (spec §4.1's "parallel conversion"):
// every distribution share ever minted by lock_tokens and not yet redeemed
// by a payout is either locked or unlocked right now.
func (st *State) totalDistributionShares() big.Int {
	return big.Add(st.TotalLockedShares, st.TotalUnlockedShares)
}

// addSchedule implements spec §4.6 steps 5-6.
func (st *State) addSchedule(initialLockedShares big.Int, now, durationSeconds int64) *UnlockSchedule {
	s := newUnlockSchedule(initialLockedShares, now, durationSeconds)
	st.Schedules = append(st.Schedules, s)
	st.TotalLockedShares = big.Add(st.TotalLockedShares, initialLockedShares)
	return s
}

// clone produces an independent copy of the global scalars and schedule list
// for unstake_query to refresh and discard without perturbing live state
// (spec §4.5's "snapshot" variant). It deliberately omits Users: callers of
// clone supply the one user record they care about separately.
func (st *State) clone() *State {
	schedules := make([]*UnlockSchedule, len(st.Schedules))
	for i, s := range st.Schedules {
		cp := *s
		schedules[i] = &cp
	}
	return &State{
		Params:                   st.Params,
		TotalStakingShares:       st.TotalStakingShares,
		TotalLockedShares:        st.TotalLockedShares,
		TotalUnlockedShares:      st.TotalUnlockedShares,
		TotalStakingShareSeconds: st.TotalStakingShareSeconds,
		LastAccountingTs:         st.LastAccountingTs,
		Schedules:                schedules,
	}
}
