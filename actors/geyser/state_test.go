package geyser

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/require"
)

func mustTestAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

func testParams() Params {
	return Params{
		MaxUnlockSchedules:    5,
		StartBonusPermille:    50,
		BonusPeriodSeconds:    86400,
		InitialSharesPerToken: big.NewInt(1000000),
	}
}

func TestConstructStateRejectsInvalidParams(t *testing.T) {
	p := testParams()
	p.BonusPeriodSeconds = 0
	_, err := ConstructState(p, 0)
	require.Error(t, err)
}

func TestGetOrCreateUserIsIdempotent(t *testing.T) {
	st, err := ConstructState(testParams(), 0)
	require.NoError(t, err)

	a := mustTestAddr(t, 100)
	u1 := st.getOrCreateUser(a, 0)
	u2 := st.getOrCreateUser(a, 50)
	require.Same(t, u1, u2)
}

func TestAddScheduleIncrementsTotalLocked(t *testing.T) {
	st, err := ConstructState(testParams(), 0)
	require.NoError(t, err)

	st.addSchedule(big.NewInt(1000), 0, 1000)
	require.True(t, st.TotalLockedShares.Equals(big.NewInt(1000)))
	require.Len(t, st.Schedules, 1)

	st.addSchedule(big.NewInt(500), 0, 1000)
	require.True(t, st.TotalLockedShares.Equals(big.NewInt(1500)))
	require.True(t, st.totalDistributionShares().Equals(big.NewInt(1500)))
}

func TestRefreshMovesUnlockedSharesAndAdvancesAccumulators(t *testing.T) {
	st, err := ConstructState(testParams(), 0)
	require.NoError(t, err)

	st.addSchedule(big.NewInt(1000), 0, 1000)
	st.TotalStakingShares = big.NewInt(10)

	a := mustTestAddr(t, 100)
	user := st.getOrCreateUser(a, 0)
	user.StakingShares = big.NewInt(10)

	unlocked := st.refresh(500, user)
	require.True(t, unlocked.Equals(big.NewInt(500)))
	require.True(t, st.TotalLockedShares.Equals(big.NewInt(500)))
	require.True(t, st.TotalUnlockedShares.Equals(big.NewInt(500)))
	require.True(t, st.TotalStakingShareSeconds.Equals(big.NewInt(5000)))
	require.True(t, user.StakingShareSeconds.Equals(big.NewInt(5000)))
	require.EqualValues(t, 500, st.LastAccountingTs)
}

func TestCloneIsIndependentOfOriginal(t *testing.T) {
	st, err := ConstructState(testParams(), 0)
	require.NoError(t, err)
	st.addSchedule(big.NewInt(1000), 0, 1000)

	snap := st.clone()
	snap.refresh(500, nil)

	require.True(t, st.TotalUnlockedShares.IsZero())
	require.False(t, snap.TotalUnlockedShares.IsZero())
	require.Len(t, st.Schedules, 1)
	require.Len(t, snap.Schedules, 1)
	require.NotSame(t, st.Schedules[0], snap.Schedules[0])
}
