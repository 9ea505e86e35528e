package builtin

import (
	"github.com/filecoin-project/go-state-types/big"
)

///// Code shared across geyser packages. /////

// BigFrac is an exact rational value, used wherever a computation must scale
// a quantity by a ratio without ever rounding through a floating point
// intermediate. Multiplication is always performed before division at the
// call site; BigFrac only carries the two operands.
type BigFrac struct {
	Numerator   big.Int
	Denominator big.Int
}

// Apply computes floor(amount * f.Numerator / f.Denominator). Denominator
// must be strictly positive; callers are expected to have validated this at
// construction time rather than on every call.
func (f BigFrac) Apply(amount big.Int) big.Int {
	return big.Div(big.Mul(amount, f.Numerator), f.Denominator)
}
