// Package ownership implements the single-owner access-control substrate
// assumed by spec §1/§6: one owner role, transferable, gating the geyser's
// owner-only operation (lock_tokens).
package ownership

import (
	addr "github.com/filecoin-project/go-address"
	"github.com/pkg/errors"
)

// ErrNotOwner is returned by any gated call made by a non-owner caller.
var ErrNotOwner = errors.New("caller is not the owner")

// OwnershipTransferred is emitted whenever the owner role changes hands,
// matching the ownership-transfer event spec §6 requires of the substrate.
type OwnershipTransferred struct {
	PreviousOwner addr.Address
	NewOwner      addr.Address
}

// Ownable holds a single transferable owner address. It is not safe for
// concurrent use on its own; callers embedding it inside a mutex-guarded
// engine (as actors/geyser/engine.go does) get that for free.
type Ownable struct {
	owner addr.Address
}

// NewOwnable constructs an Ownable with the given initial owner. The zero
// address is rejected the same way spec §4.4 rejects a null beneficiary.
func NewOwnable(owner addr.Address) (*Ownable, error) {
	if owner == addr.Undef {
		return nil, errors.New("owner must not be the null address")
	}
	return &Ownable{owner: owner}, nil
}

func (o *Ownable) Owner() addr.Address {
	return o.owner
}

// RequireOwner returns ErrNotOwner if caller is not the current owner.
func (o *Ownable) RequireOwner(caller addr.Address) error {
	if caller != o.owner {
		return ErrNotOwner
	}
	return nil
}

// TransferOwnership moves the owner role to newOwner, returning the event to
// emit on success. Only the current owner may call this.
func (o *Ownable) TransferOwnership(caller, newOwner addr.Address) (*OwnershipTransferred, error) {
	if err := o.RequireOwner(caller); err != nil {
		return nil, err
	}
	if newOwner == addr.Undef {
		return nil, errors.New("new owner must not be the null address")
	}
	prev := o.owner
	o.owner = newOwner
	return &OwnershipTransferred{PreviousOwner: prev, NewOwner: newOwner}, nil
}
