package geyser

import (
	"testing"

	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/require"
)

func TestUnlockScheduleLinearRelease(t *testing.T) {
	s := newUnlockSchedule(big.NewInt(1000000), 0, 1000)

	delta := s.evaluate(250)
	require.True(t, delta.Equals(big.NewInt(250000)))
	require.True(t, s.UnlockedShares.Equals(big.NewInt(250000)))
	require.EqualValues(t, 250, s.LastUnlockTs)
}

func TestUnlockScheduleSameTickIsNoop(t *testing.T) {
	s := newUnlockSchedule(big.NewInt(1000000), 0, 1000)
	s.evaluate(250)
	delta := s.evaluate(250)
	require.True(t, delta.IsZero())
}

func TestUnlockScheduleFlushesRemainderAtEnd(t *testing.T) {
	s := newUnlockSchedule(big.NewInt(1000000), 0, 1000)
	s.evaluate(999)
	require.False(t, s.UnlockedShares.Equals(big.NewInt(1000000)))

	delta := s.evaluate(1000)
	require.True(t, big.Add(s.UnlockedShares, big.Zero()).Equals(big.NewInt(1000000)))
	require.True(t, delta.GreaterThan(big.Zero()))
}

func TestUnlockScheduleEvaluatingPastEndIsNoFurtherRelease(t *testing.T) {
	s := newUnlockSchedule(big.NewInt(1000000), 0, 1000)
	s.evaluate(1000)
	delta := s.evaluate(5000)
	require.True(t, delta.IsZero())
	require.True(t, s.UnlockedShares.Equals(big.NewInt(1000000)))
}

func TestUnlockScheduleDustFreeCompletionOverTwoTicks(t *testing.T) {
	const year = int64(31536000)
	duration := year * 10
	s := newUnlockSchedule(big.NewInt(1000000000), 0, duration)

	first := s.evaluate(duration - 60)
	second := s.evaluate(duration + 5)

	require.True(t, big.Add(first, second).Equals(big.NewInt(1000000000)))
	require.True(t, s.UnlockedShares.Equals(big.NewInt(1000000000)))
}
