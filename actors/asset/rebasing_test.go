package asset_test

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	"github.com/stretchr/testify/require"

	"github.com/epik-geyser/geyser/actors/asset"
)

func mustAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

func TestTransferAndBalance(t *testing.T) {
	l := asset.NewInMemoryLedger()
	alice := mustAddr(t, 100)
	bob := mustAddr(t, 101)

	l.Mint(alice, big.NewInt(1000))
	require.True(t, l.BalanceOf(alice).Equals(big.NewInt(1000)))
	require.True(t, l.TotalSupply().Equals(big.NewInt(1000)))

	require.NoError(t, l.Transfer(alice, bob, big.NewInt(400)))
	require.True(t, l.BalanceOf(alice).Equals(big.NewInt(600)))
	require.True(t, l.BalanceOf(bob).Equals(big.NewInt(400)))

	err := l.Transfer(alice, bob, big.NewInt(10000))
	require.ErrorIs(t, err, asset.ErrInsufficientBalance)
}

func TestTransferFromRequiresAllowance(t *testing.T) {
	l := asset.NewInMemoryLedger()
	alice := mustAddr(t, 100)
	bob := mustAddr(t, 101)
	pool := mustAddr(t, 102)

	l.Mint(alice, big.NewInt(1000))

	err := l.TransferFrom(alice, pool, bob, big.NewInt(100))
	require.ErrorIs(t, err, asset.ErrInsufficientAllowance)

	l.Approve(alice, bob, big.NewInt(100))
	require.NoError(t, l.TransferFrom(alice, pool, bob, big.NewInt(100)))
	allowance := l.Allowance(alice, bob)
	require.True(t, allowance.IsZero())
	require.True(t, l.BalanceOf(pool).Equals(big.NewInt(100)))
}

func TestRebaseScalesAllHolders(t *testing.T) {
	l := asset.NewInMemoryLedger()
	alice := mustAddr(t, 100)
	bob := mustAddr(t, 101)

	l.Mint(alice, big.NewInt(500))
	l.Mint(bob, big.NewInt(1500))

	require.NoError(t, l.Rebase(1, big.NewInt(2000)))

	require.True(t, l.TotalSupply().Equals(big.NewInt(4000)))
	require.True(t, l.BalanceOf(alice).Equals(big.NewInt(1000)))
	require.True(t, l.BalanceOf(bob).Equals(big.NewInt(3000)))
}

func TestRebaseOnEmptySupplyIsNoop(t *testing.T) {
	l := asset.NewInMemoryLedger()
	require.NoError(t, l.Rebase(1, big.NewInt(500)))
	totalSupply := l.TotalSupply()
	require.True(t, totalSupply.IsZero())
}
