package geyser

import (
	"sync"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/pkg/errors"

	"github.com/epik-geyser/geyser/actors/asset"
	"github.com/epik-geyser/geyser/actors/ownership"
)

// Engine is the top-level geyser object of spec §2: one long-lived,
// mutex-serialized state machine wrapping the share accounting in State plus
// the external collaborators named in spec §6. It plays the role the
// teacher's vesting-aware miner actor plays relative to vesting.State, minus
// the VM dispatcher: callers invoke Go methods directly instead of routing
// through an Exports table, and a single sync.Mutex stands in for the
// runtime's implicit per-message serialization (spec §5, §9).
type Engine struct {
	mu sync.Mutex

	State *State

	StakingAsset      asset.RebasingLedger
	DistributionAsset asset.Ledger
	StakingPool       addr.Address
	DistributionPool  addr.Address

	Owner  *ownership.Ownable
	Events EventSink
	Log    Logger

	queryCache *queryCache
}

// NewEngine implements spec §4.7's construction, wiring the share-accounting
// state to the asset ledgers, owner, event sink and logger it needs. A nil
// sink or log falls back to a no-op implementation, the way the teacher's
// miner actor tolerates an absent reward or power actor reference in tests.
func NewEngine(
	params Params,
	owner addr.Address,
	stakingAsset asset.RebasingLedger,
	stakingPool addr.Address,
	distributionAsset asset.Ledger,
	distributionPool addr.Address,
	sink EventSink,
	log Logger,
	now int64,
) (*Engine, error) {
	st, err := ConstructState(params, now)
	if err != nil {
		return nil, err
	}
	ownable, err := ownership.NewOwnable(owner)
	if err != nil {
		return nil, errors.Wrap(err, "constructing geyser engine")
	}
	if sink == nil {
		sink = NopEventSink
	}
	if log == nil {
		log = NopLogger
	}

	return &Engine{
		State:             st,
		StakingAsset:      stakingAsset,
		DistributionAsset: distributionAsset,
		StakingPool:       stakingPool,
		DistributionPool:  distributionPool,
		Owner:             ownable,
		Events:            sink,
		Log:               log,
		queryCache:        newQueryCache(),
	}, nil
}

func (e *Engine) stakingPoolBalance() big.Int {
	return e.StakingAsset.BalanceOf(e.StakingPool)
}

func (e *Engine) distributionPoolBalance() big.Int {
	return e.DistributionAsset.BalanceOf(e.DistributionPool)
}

// totalStakedForLocked is totalStakedFor's body, callable while e.mu is
// already held.
func (e *Engine) totalStakedForLocked(u *UserTotals) big.Int {
	if e.State.TotalStakingShares.IsZero() {
		return big.Zero()
	}
	return big.Div(big.Mul(u.StakingShares, e.stakingPoolBalance()), e.State.TotalStakingShares)
}

// poolShareAmount converts a quantity of distribution-pool shares to a
// distribution-asset amount against the live pool balance, implementing the
// view conversions of spec §6 (total_locked, total_unlocked).
func (e *Engine) poolShareAmount(shares big.Int) big.Int {
	total := e.State.totalDistributionShares()
	if total.IsZero() {
		return big.Zero()
	}
	return big.Div(big.Mul(shares, e.distributionPoolBalance()), total)
}

func (e *Engine) totalLockedAmountLocked() big.Int {
	return e.poolShareAmount(e.State.TotalLockedShares)
}

func (e *Engine) totalUnlockedAmountLocked() big.Int {
	return e.poolShareAmount(e.State.TotalUnlockedShares)
}

// Stake implements spec §4.4 with the caller as its own beneficiary.
func (e *Engine) Stake(caller addr.Address, amount big.Int, data []byte, now int64) error {
	return e.StakeFor(caller, caller, amount, data, now)
}

// StakeFor implements spec §4.4.
func (e *Engine) StakeFor(caller, beneficiary addr.Address, amount big.Int, data []byte, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.LessThanEqual(big.Zero()) {
		return ErrZeroAmount
	}
	if beneficiary == addr.Undef {
		return ErrBeneficiaryIsNull
	}

	user := e.State.getOrCreateUser(beneficiary, now)
	e.State.refresh(now, user)

	poolBalance := e.stakingPoolBalance()
	minted := MintShares(amount, e.State.TotalStakingShares, poolBalance, e.State.Params.InitialSharesPerToken)
	if minted.IsZero() {
		return ErrStakeTooSmall
	}

	// The deposit is accounted for before the transfer below settles it,
	// matching spec §5's reentrancy ordering: a caller-supplied hook invoked
	// during the transfer observes post-deposit state, never a half-applied
	// stake.
	user.deposit(minted, now)
	e.State.TotalStakingShares = big.Add(e.State.TotalStakingShares, minted)

	if err := e.StakingAsset.Transfer(caller, e.StakingPool, amount); err != nil {
		user.Stakes = user.Stakes[:len(user.Stakes)-1]
		user.StakingShares = big.Sub(user.StakingShares, minted)
		e.State.TotalStakingShares = big.Sub(e.State.TotalStakingShares, minted)
		return errors.Wrapf(err, "depositing stake from %s", caller)
	}

	e.queryCache.invalidate()
	e.Events.Emit(Event{Payload: Staked{
		User:   beneficiary,
		Amount: amount,
		Total:  e.totalStakedForLocked(user),
		Data:   data,
	}})
	return nil
}

// settleUnstake runs the LIFO burn-and-reward computation of spec §4.5 step
// 3 against st and user, mutating both in place, and returns the total
// reward amount and distribution shares consumed. Passing a cloned st/user
// pair makes this safe to reuse for the non-mutating unstake_query variant.
func (e *Engine) settleUnstake(st *State, user *UserTotals, sharesToBurn big.Int, now int64) (rewardAmount, rewardShares big.Int) {
	slices := user.burnLIFO(sharesToBurn, now)

	rewardAmount = big.Zero()
	rewardShares = big.Zero()

	distPoolBalance := e.distributionPoolBalance()
	totalDistShares := st.totalDistributionShares()

	for _, sl := range slices {
		slicedShareSeconds := big.Mul(sl.Shares, big.NewInt(sl.StakeTimeSec))

		// raw_reward is computed against the pre-deduction global
		// share-seconds so a single unstake matches the sum of many
		// consecutive infinitesimal ones (spec §4.5 step 3's parenthetical).
		var rawRewardShares big.Int
		if st.TotalStakingShareSeconds.IsZero() {
			rawRewardShares = big.Zero()
		} else {
			rawRewardShares = big.Div(big.Mul(st.TotalUnlockedShares, slicedShareSeconds), st.TotalStakingShareSeconds)
		}

		user.StakingShareSeconds = big.Sub(user.StakingShareSeconds, slicedShareSeconds)
		st.TotalStakingShareSeconds = big.Sub(st.TotalStakingShareSeconds, slicedShareSeconds)

		if rawRewardShares.IsZero() {
			continue
		}

		unbonused := BurnValue(rawRewardShares, totalDistShares, distPoolBalance)
		factor := BonusFactor(sl.StakeTimeSec, st.Params.StartBonusPermille, st.Params.BonusPeriodSeconds)
		bonused := factor.Apply(unbonused)
		bonusedShares := MintShares(bonused, totalDistShares, distPoolBalance, st.Params.InitialSharesPerToken)

		// The gap between rawRewardShares and bonusedShares is never
		// subtracted from st.TotalUnlockedShares below, so it stays in the
		// unlocked pool for remaining stakers to earn instead of being
		// burned (spec §9 open question, "returning" convention).
		rewardAmount = big.Add(rewardAmount, bonused)
		rewardShares = big.Add(rewardShares, bonusedShares)
	}

	return rewardAmount, rewardShares
}

func cloneUser(u *UserTotals) *UserTotals {
	cp := &UserTotals{
		StakingShares:           u.StakingShares,
		StakingShareSeconds:     u.StakingShareSeconds,
		LastAccountingTsForUser: u.LastAccountingTsForUser,
		Stakes:                  make([]*Stake, len(u.Stakes)),
	}
	for i, s := range u.Stakes {
		cp.Stakes[i] = &Stake{Shares: s.Shares, Timestamp: s.Timestamp}
	}
	return cp
}

// Unstake implements spec §4.5.
func (e *Engine) Unstake(caller addr.Address, amount big.Int, data []byte, now int64) (big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.LessThanEqual(big.Zero()) {
		return big.Int{}, ErrZeroAmount
	}
	user, ok := e.State.Users[caller]
	if !ok {
		return big.Int{}, ErrUnstakeExceedsBalance
	}

	e.State.refresh(now, user)

	if amount.GreaterThan(e.totalStakedForLocked(user)) {
		return big.Int{}, ErrUnstakeExceedsBalance
	}

	poolBalance := e.stakingPoolBalance()
	if poolBalance.IsZero() {
		e.Log.Logf(LogWarn, "unstake for %s against a zero-balance staking pool", caller)
		return big.Int{}, ErrUnstakeTooSmall
	}
	sharesToBurn := big.Div(big.Mul(amount, e.State.TotalStakingShares), poolBalance)
	if sharesToBurn.IsZero() {
		e.Log.Logf(LogWarn, "unstake for %s on amount %s rounds to zero staking shares", caller, amount.String())
		return big.Int{}, ErrUnstakeTooSmall
	}

	rewardAmount, rewardShares := e.settleUnstake(e.State, user, sharesToBurn, now)
	e.State.TotalStakingShares = big.Sub(e.State.TotalStakingShares, sharesToBurn)
	e.State.TotalUnlockedShares = big.Sub(e.State.TotalUnlockedShares, rewardShares)

	// Every state mutation above has already landed, per spec §5's
	// reentrancy ordering; a transfer failing past this point would mean the
	// pool's own balance fell short of what the share ledger believes it
	// holds, which this engine treats as an unrecoverable invariant
	// violation rather than something to roll back.
	if err := e.StakingAsset.Transfer(e.StakingPool, caller, amount); err != nil {
		return big.Int{}, errors.Wrapf(err, "returning staked amount to %s", caller)
	}
	if rewardAmount.GreaterThan(big.Zero()) {
		if err := e.DistributionAsset.Transfer(e.DistributionPool, caller, rewardAmount); err != nil {
			return big.Int{}, errors.Wrapf(err, "paying reward to %s", caller)
		}
	}

	e.queryCache.invalidate()
	e.Events.Emit(Event{Payload: Unstaked{
		User:   caller,
		Amount: amount,
		Total:  e.totalStakedForLocked(user),
		Data:   data,
	}})
	if rewardAmount.GreaterThan(big.Zero()) {
		e.Events.Emit(Event{Payload: TokensClaimed{User: caller, Amount: rewardAmount}})
	}
	return rewardAmount, nil
}

// UnstakeQuery implements spec §4.5's unstake_query variant: the same
// computation, against a cloned snapshot of state, returning the reward
// amount without mutating anything observable by a subsequent call. Results
// are memoized per (caller, amount, now) until the next mutating operation.
func (e *Engine) UnstakeQuery(caller addr.Address, amount big.Int, now int64) (big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount.LessThanEqual(big.Zero()) {
		return big.Int{}, ErrZeroAmount
	}
	user, ok := e.State.Users[caller]
	if !ok {
		return big.Int{}, ErrUnstakeExceedsBalance
	}

	if cached, hit := e.queryCache.get(caller, amount, now); hit {
		return cached, nil
	}

	snapshot := e.State.clone()
	userCopy := cloneUser(user)
	snapshot.refresh(now, userCopy)

	staked := big.Zero()
	if !snapshot.TotalStakingShares.IsZero() {
		staked = big.Div(big.Mul(userCopy.StakingShares, e.stakingPoolBalance()), snapshot.TotalStakingShares)
	}
	if amount.GreaterThan(staked) {
		return big.Int{}, ErrUnstakeExceedsBalance
	}

	stakingPoolBalance := e.stakingPoolBalance()
	if stakingPoolBalance.IsZero() {
		e.Log.Logf(LogWarn, "unstake_query for %s against a zero-balance staking pool", caller)
		return big.Int{}, ErrUnstakeTooSmall
	}
	sharesToBurn := big.Div(big.Mul(amount, snapshot.TotalStakingShares), stakingPoolBalance)
	if sharesToBurn.IsZero() {
		e.Log.Logf(LogWarn, "unstake_query for %s on amount %s rounds to zero staking shares", caller, amount.String())
		return big.Int{}, ErrUnstakeTooSmall
	}

	rewardAmount, _ := e.settleUnstake(snapshot, userCopy, sharesToBurn, now)

	e.queryCache.put(caller, amount, now, rewardAmount)
	return rewardAmount, nil
}

// LockTokens implements spec §4.6.
func (e *Engine) LockTokens(caller addr.Address, amount big.Int, durationSeconds int64, now int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.Owner.RequireOwner(caller); err != nil {
		return ErrNotOwner
	}
	if amount.LessThanEqual(big.Zero()) {
		return ErrZeroAmount
	}
	if len(e.State.Schedules) >= e.State.Params.MaxUnlockSchedules {
		return ErrScheduleLimit
	}

	e.State.refresh(now, nil)

	distPoolBalance := e.distributionPoolBalance()
	totalDistShares := e.State.totalDistributionShares()
	minted := MintShares(amount, totalDistShares, distPoolBalance, e.State.Params.InitialSharesPerToken)
	if minted.IsZero() {
		e.Log.Logf(LogWarn, "lock_tokens of %s by %s rounds to zero distribution shares against a pool of %s", amount.String(), caller, distPoolBalance.String())
	}

	if err := e.DistributionAsset.Transfer(caller, e.DistributionPool, amount); err != nil {
		return errors.Wrapf(err, "locking distribution tokens from %s", caller)
	}

	e.State.addSchedule(minted, now, durationSeconds)

	e.queryCache.invalidate()
	e.Events.Emit(Event{Payload: TokensLocked{
		Amount:          amount,
		TotalLocked:     e.totalLockedAmountLocked(),
		DurationSeconds: durationSeconds,
	}})
	return nil
}

// TransferOwnership implements the ownership-transfer operation the access
// control substrate requires (spec §6's "plus an ownership-transfer event").
func (e *Engine) TransferOwnership(caller, newOwner addr.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	event, err := e.Owner.TransferOwnership(caller, newOwner)
	if err != nil {
		return err
	}
	e.Events.Emit(Event{Payload: *event})
	return nil
}

// AccountingSnapshot is update_accounting's return tuple, per spec §6's
// table entry for that operation.
type AccountingSnapshot struct {
	TotalLocked       big.Int
	TotalUnlocked     big.Int
	UserShareSeconds  big.Int
	TotalShareSeconds big.Int
	RewardEntitlement big.Int
	Now               int64
}

// UpdateAccounting implements spec §6's update_accounting: it refreshes
// global and caller accounting and reports the resulting totals plus the
// caller's pro-rata entitlement against the currently unlocked pool.
func (e *Engine) UpdateAccounting(caller addr.Address, now int64) AccountingSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	user := e.State.getOrCreateUser(caller, now)
	lockedBefore := e.totalLockedAmountLocked()
	unlocked := e.State.refresh(now, user)
	if unlocked.GreaterThan(big.Zero()) {
		e.queryCache.invalidate()
		// The event amount is the drop in the locked token value, so
		// successive events sum to exactly the locked amount.
		e.Events.Emit(Event{Payload: TokensUnlocked{
			Amount:        big.Sub(lockedBefore, e.totalLockedAmountLocked()),
			TotalUnlocked: e.totalUnlockedAmountLocked(),
		}})
	}

	rewardEntitlement := big.Zero()
	if e.State.TotalStakingShareSeconds.GreaterThan(big.Zero()) {
		rewardEntitlement = big.Div(
			big.Mul(e.totalUnlockedAmountLocked(), user.StakingShareSeconds),
			e.State.TotalStakingShareSeconds,
		)
	}

	return AccountingSnapshot{
		TotalLocked:       e.totalLockedAmountLocked(),
		TotalUnlocked:     e.totalUnlockedAmountLocked(),
		UserShareSeconds:  user.StakingShareSeconds,
		TotalShareSeconds: e.State.TotalStakingShareSeconds,
		RewardEntitlement: rewardEntitlement,
		Now:               now,
	}
}

// TotalStaked is spec §6's total_staked read view.
func (e *Engine) TotalStaked() big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stakingPoolBalance()
}

// TotalStakedFor is spec §6's total_staked_for read view.
func (e *Engine) TotalStakedFor(user addr.Address) big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	u, ok := e.State.Users[user]
	if !ok {
		return big.Zero()
	}
	return e.totalStakedForLocked(u)
}

// TotalLocked is spec §6's total_locked read view.
func (e *Engine) TotalLocked() big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalLockedAmountLocked()
}

// TotalUnlocked is spec §6's total_unlocked read view.
func (e *Engine) TotalUnlocked() big.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalUnlockedAmountLocked()
}

// UnlockScheduleCount is spec §6's unlock_schedule_count read view.
func (e *Engine) UnlockScheduleCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.State.Schedules)
}

// UnlockScheduleAt is spec §6's unlock_schedules(i) read view. It returns a
// copy so callers can't mutate live schedule state through it.
func (e *Engine) UnlockScheduleAt(i int) UnlockSchedule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.State.Schedules[i]
}
