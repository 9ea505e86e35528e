package asset

import (
	"sync"

	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
)

// InMemoryLedger is a reference fungible-asset ledger. It exists to let the
// geyser engine be exercised and tested without a real token contract
// behind it; it is not part of the engine's public surface.
type InMemoryLedger struct {
	mu         sync.Mutex
	balances   map[addr.Address]big.Int
	allowances map[allowanceKey]big.Int
	supply     big.Int
}

type allowanceKey struct {
	owner   addr.Address
	spender addr.Address
}

func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		balances:   make(map[addr.Address]big.Int),
		allowances: make(map[allowanceKey]big.Int),
		supply:     big.Zero(),
	}
}

// Mint credits amount to addr and increases total supply. It exists only on
// the concrete type, not the Ledger interface: it models out-of-band supply
// issuance (e.g. a test setting up an initial balance), not a geyser
// operation.
func (l *InMemoryLedger) Mint(to addr.Address, amount big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bal, ok := l.balances[to]
	if !ok {
		bal = big.Zero()
	}
	l.balances[to] = big.Add(bal, amount)
	l.supply = big.Add(l.supply, amount)
}

// Approve grants spender an allowance over owner's balance, mirroring the
// ERC20-style allowance primitive spec §6 assumes.
func (l *InMemoryLedger) Approve(owner, spender addr.Address, amount big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.allowances[allowanceKey{owner, spender}] = amount
}

func (l *InMemoryLedger) Allowance(owner, spender addr.Address) big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.allowance(owner, spender)
}

func (l *InMemoryLedger) allowance(owner, spender addr.Address) big.Int {
	a, ok := l.allowances[allowanceKey{owner, spender}]
	if !ok {
		return big.Zero()
	}
	return a
}

func (l *InMemoryLedger) BalanceOf(a addr.Address) big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.balances[a]
	if !ok {
		return big.Zero()
	}
	return b
}

func (l *InMemoryLedger) TotalSupply() big.Int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply
}

func (l *InMemoryLedger) Transfer(from, to addr.Address, amount big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.transfer(from, to, amount)
}

func (l *InMemoryLedger) TransferFrom(from, to, spender addr.Address, amount big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if from != spender {
		allowed := l.allowance(from, spender)
		if allowed.LessThan(amount) {
			return ErrInsufficientAllowance
		}
		if err := l.transfer(from, to, amount); err != nil {
			return err
		}
		l.allowances[allowanceKey{from, spender}] = big.Sub(allowed, amount)
		return nil
	}
	return l.transfer(from, to, amount)
}

func (l *InMemoryLedger) transfer(from, to addr.Address, amount big.Int) error {
	bal, ok := l.balances[from]
	if !ok || bal.LessThan(amount) {
		return ErrInsufficientBalance
	}
	l.balances[from] = big.Sub(bal, amount)
	toBal, ok := l.balances[to]
	if !ok {
		toBal = big.Zero()
	}
	l.balances[to] = big.Add(toBal, amount)
	return nil
}

// Rebase scales every holder's balance by (1 + supplyDelta/totalSupply),
// exactly as spec §6 describes the staking asset's owner-invoked rebase. A
// zero total supply is a no-op: there is nothing to scale.
func (l *InMemoryLedger) Rebase(epoch int64, supplyDelta big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.supply.IsZero() {
		return nil
	}

	priorSupply := l.supply
	for holder, bal := range l.balances {
		if bal.IsZero() {
			continue
		}
		delta := big.Div(big.Mul(bal, supplyDelta), priorSupply)
		l.balances[holder] = big.Add(bal, delta)
	}
	l.supply = big.Add(l.supply, supplyDelta)
	return nil
}

var _ RebasingLedger = (*InMemoryLedger)(nil)
