package geyser_test

import (
	"testing"

	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/require"

	"github.com/epik-geyser/geyser/actors/geyser"
)

func TestMintSharesEmptyPoolUsesInitialRate(t *testing.T) {
	minted := geyser.MintShares(big.NewInt(100), big.Zero(), big.Zero(), big.NewInt(1000000))
	require.True(t, minted.Equals(big.NewInt(100000000)))
}

func TestMintSharesNonEmptyPool(t *testing.T) {
	minted := geyser.MintShares(big.NewInt(150), big.NewInt(50000000), big.NewInt(100), big.NewInt(1000000))
	require.True(t, minted.Equals(big.NewInt(75000000)))
}

func TestBurnValueZeroTotalSharesIsZero(t *testing.T) {
	v := geyser.BurnValue(big.NewInt(10), big.Zero(), big.NewInt(500))
	require.True(t, v.IsZero())
}

func TestBurnValueProportional(t *testing.T) {
	v := geyser.BurnValue(big.NewInt(60), big.NewInt(100), big.NewInt(1000))
	require.True(t, v.Equals(big.NewInt(600)))
}

func TestBonusFactorAtZeroElapsedEqualsStartFraction(t *testing.T) {
	f := geyser.BonusFactor(0, 50, 86400)
	require.True(t, f.Apply(big.NewInt(1000)).Equals(big.NewInt(500)))
}

func TestBonusFactorAtOrPastPeriodIsOne(t *testing.T) {
	f := geyser.BonusFactor(86400, 50, 86400)
	require.True(t, f.Apply(big.NewInt(1000)).Equals(big.NewInt(1000)))

	fPast := geyser.BonusFactor(999999, 50, 86400)
	require.True(t, fPast.Apply(big.NewInt(1000)).Equals(big.NewInt(1000)))
}

func TestBonusFactorHalfPeriod(t *testing.T) {
	f := geyser.BonusFactor(43200, 50, 86400)
	require.True(t, f.Apply(big.NewInt(1000)).Equals(big.NewInt(750)))
}

func TestBonusFactorNegativeElapsedClampsToZero(t *testing.T) {
	f := geyser.BonusFactor(-10, 0, 86400)
	applied := f.Apply(big.NewInt(1000))
	require.True(t, applied.IsZero())
}
