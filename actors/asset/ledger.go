// Package asset defines the fungible-balance ledger the geyser engine
// consumes for both its staking asset and its distribution asset, and
// provides an in-memory reference implementation of one.
//
// The engine never assumes anything about how a Ledger is backed: a real
// deployment would point it at an on-chain token contract. All the engine
// requires is the four read/transfer primitives below, plus (for the
// staking asset only) the ability for the balance of a single address to
// change out of band between calls — see RebasingLedger.Rebase.
package asset

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
)

// Ledger is the external collaborator described in spec §6: a fungible
// balance registry with transfer and allowance primitives. The geyser
// engine is given one Ledger for the staking asset and one for the
// distribution asset; they may be the same instance.
type Ledger interface {
	// BalanceOf returns the live balance of addr. For the staking asset
	// this is the quantity the engine's share ledger must track indirectly,
	// since it can change out of band via Rebase.
	BalanceOf(addr addr.Address) big.Int

	// TotalSupply returns the sum of every holder's balance.
	TotalSupply() big.Int

	// TransferFrom moves amount from 'from' to 'to', consuming the
	// allowance 'spender' has been granted by 'from'. Returns
	// ErrInsufficientAllowance or ErrInsufficientBalance on failure; no
	// partial transfer occurs.
	TransferFrom(from, to, spender addr.Address, amount big.Int) error

	// Transfer moves amount out of the caller's own balance to 'to'.
	Transfer(from, to addr.Address, amount big.Int) error
}

// RebasingLedger is a Ledger whose holder balances can be rescaled
// out-of-band by an owner-invoked rebase, as described in spec §6. Only
// the staking asset needs to satisfy this; the distribution asset need
// only satisfy Ledger.
type RebasingLedger interface {
	Ledger

	// Rebase scales every holder's balance by (1 + supplyDelta/totalSupply).
	// A positive supplyDelta increases every balance; a negative one
	// decreases them. The geyser engine never calls this itself — it is
	// invoked by whatever governs the staking asset, and the engine
	// observes its effect lazily through BalanceOf.
	Rebase(epoch int64, supplyDelta big.Int) error
}
