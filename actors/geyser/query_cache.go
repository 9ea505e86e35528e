package geyser

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-state-types/big"
	lru "github.com/hashicorp/golang-lru"
)

// queryCacheSize bounds memory use of the unstake_query memoization; it has
// no bearing on correctness, only on how many distinct (user, amount, now)
// reads are remembered before the oldest is evicted.
const queryCacheSize = 1024

type queryCacheKey struct {
	user   addr.Address
	amount string
	now    int64
}

// queryCache memoizes UnstakeQuery results. Because UnstakeQuery is a pure
// function of (state, now) per spec §5, a cache entry is valid for as long
// as no mutating operation has touched state since it was stored — callers
// invalidate the whole cache on every mutating call rather than tracking
// finer-grained dependencies, since every mutating operation touches the
// global totals anyway (spec §9 "no benefit to fine-grained locking").
type queryCache struct {
	lru *lru.Cache
}

func newQueryCache() *queryCache {
	c, err := lru.New(queryCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which queryCacheSize
		// never is.
		panic(err)
	}
	return &queryCache{lru: c}
}

func (c *queryCache) get(user addr.Address, amount big.Int, now int64) (big.Int, bool) {
	v, ok := c.lru.Get(queryCacheKey{user: user, amount: amount.String(), now: now})
	if !ok {
		return big.Int{}, false
	}
	return v.(big.Int), true
}

func (c *queryCache) put(user addr.Address, amount big.Int, now int64, reward big.Int) {
	c.lru.Add(queryCacheKey{user: user, amount: amount.String(), now: now}, reward)
}

func (c *queryCache) invalidate() {
	c.lru.Purge()
}
