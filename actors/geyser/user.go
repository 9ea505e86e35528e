package geyser

import "github.com/filecoin-project/go-state-types/big"

// Stake is one deposit in a user's stake journal (spec §3). Entries are
// appended on stake and consumed last-in-first-out on unstake.
type Stake struct {
	Shares    big.Int
	Timestamp int64
}

// UserTotals is the per-user record of spec §3. It is created lazily on a
// user's first stake or UpdateAccounting call and is never removed
// afterwards, even once its balance
// returns to zero, so that replaying the journal stays consistent.
type UserTotals struct {
	StakingShares           big.Int
	StakingShareSeconds     big.Int
	LastAccountingTsForUser int64
	Stakes                  []*Stake
}

func newUserTotals(now int64) *UserTotals {
	return &UserTotals{
		StakingShares:           big.Zero(),
		StakingShareSeconds:     big.Zero(),
		LastAccountingTsForUser: now,
	}
}

// advanceShareSeconds implements spec §4.2 step 3 for one user.
func (u *UserTotals) advanceShareSeconds(now int64) {
	if now <= u.LastAccountingTsForUser {
		u.LastAccountingTsForUser = now
		return
	}
	elapsed := big.NewInt(now - u.LastAccountingTsForUser)
	u.StakingShareSeconds = big.Add(u.StakingShareSeconds, big.Mul(u.StakingShares, elapsed))
	u.LastAccountingTsForUser = now
}

// deposit appends a new stake journal entry and credits the user's share
// total, implementing spec §4.4 steps 4-5 for the user side.
func (u *UserTotals) deposit(shares big.Int, now int64) {
	u.Stakes = append(u.Stakes, &Stake{Shares: shares, Timestamp: now})
	u.StakingShares = big.Add(u.StakingShares, shares)
}

// burnSlice is one LIFO slice consumed while satisfying an unstake, carrying
// enough information for the caller to compute its share of the reward pool
// against the pre-slice global denominator (spec §4.5 step 3's parenthetical).
type burnSlice struct {
	Shares       big.Int
	StakeTimeSec int64
}

// burnLIFO consumes sharesToBurn shares from the newest stake entries first,
// implementing spec §4.5 step 3's traversal. It mutates u.Stakes and
// u.StakingShares in place and returns the ordered list of slices consumed,
// newest first. The caller is responsible for deducting each slice's
// share-seconds from both the user and global accumulators, since that
// requires the global total which this type doesn't have.
func (u *UserTotals) burnLIFO(sharesToBurn big.Int, now int64) []burnSlice {
	var slices []burnSlice
	remaining := sharesToBurn

	for remaining.GreaterThan(big.Zero()) && len(u.Stakes) > 0 {
		top := u.Stakes[len(u.Stakes)-1]

		var taken big.Int
		if top.Shares.GreaterThan(remaining) {
			taken = remaining
			top.Shares = big.Sub(top.Shares, taken)
		} else {
			taken = top.Shares
			u.Stakes = u.Stakes[:len(u.Stakes)-1]
		}

		slices = append(slices, burnSlice{
			Shares:       taken,
			StakeTimeSec: now - top.Timestamp,
		})
		remaining = big.Sub(remaining, taken)
	}

	u.StakingShares = big.Sub(u.StakingShares, sharesToBurn)
	return slices
}

// totalStakedShares sums the stake journal, independently of StakingShares,
// for invariant checks (spec §3 invariant 5: staking_shares = Σ stakes.shares).
func (u *UserTotals) totalStakedShares() big.Int {
	total := big.Zero()
	for _, s := range u.Stakes {
		total = big.Add(total, s.Shares)
	}
	return total
}
