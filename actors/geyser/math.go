package geyser

import (
	"github.com/filecoin-project/go-state-types/big"

	"github.com/epik-geyser/geyser/actors/builtin"
)

// MintShares implements spec §4.1's mint_shares: the number of shares an
// amount of the underlying asset is worth right now, given the live pool
// balance. When the pool is empty shares are minted at the fixed initial
// rate so that the first deposit isn't divided by zero.
func MintShares(amount, totalShares, poolBalance, initialSharesPerToken big.Int) big.Int {
	if totalShares.IsZero() || poolBalance.IsZero() {
		return big.Mul(amount, initialSharesPerToken)
	}
	return big.Div(big.Mul(amount, totalShares), poolBalance)
}

// BurnValue implements spec §4.1's burn_value: the amount of the underlying
// asset a given number of shares is currently worth.
func BurnValue(shares, totalShares, poolBalance big.Int) big.Int {
	if totalShares.IsZero() {
		return big.Zero()
	}
	return big.Div(big.Mul(shares, poolBalance), totalShares)
}

// BonusFactor computes the early-withdrawal bonus factor from spec §4.5 and
// §9 as an exact fraction: (start*period + (100-start)*min(Δ,period)) /
// (100*period). At Δ=0 this reduces to start/100; at Δ>=period it reduces to
// 1. Never converted through a float.
func BonusFactor(stakeTimeSec, startBonusPermille, bonusPeriodSeconds int64) builtin.BigFrac {
	clamped := stakeTimeSec
	if clamped > bonusPeriodSeconds {
		clamped = bonusPeriodSeconds
	}
	if clamped < 0 {
		clamped = 0
	}

	start := big.NewInt(startBonusPermille)
	period := big.NewInt(bonusPeriodSeconds)
	hundred := big.NewInt(100)

	numerator := big.Add(
		big.Mul(start, period),
		big.Mul(big.Sub(hundred, start), big.NewInt(clamped)),
	)
	denominator := big.Mul(hundred, period)

	return builtin.BigFrac{Numerator: numerator, Denominator: denominator}
}
