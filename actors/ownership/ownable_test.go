package ownership_test

import (
	"testing"

	address "github.com/filecoin-project/go-address"
	"github.com/stretchr/testify/require"

	"github.com/epik-geyser/geyser/actors/ownership"
)

func mustAddr(t *testing.T, id uint64) address.Address {
	a, err := address.NewIDAddress(id)
	require.NoError(t, err)
	return a
}

func TestNewOwnableRejectsNullAddress(t *testing.T) {
	_, err := ownership.NewOwnable(address.Undef)
	require.Error(t, err)
}

func TestRequireOwner(t *testing.T) {
	owner := mustAddr(t, 100)
	stranger := mustAddr(t, 101)

	o, err := ownership.NewOwnable(owner)
	require.NoError(t, err)

	require.NoError(t, o.RequireOwner(owner))
	require.ErrorIs(t, o.RequireOwner(stranger), ownership.ErrNotOwner)
}

func TestTransferOwnership(t *testing.T) {
	owner := mustAddr(t, 100)
	stranger := mustAddr(t, 101)
	next := mustAddr(t, 102)

	o, err := ownership.NewOwnable(owner)
	require.NoError(t, err)

	_, err = o.TransferOwnership(stranger, next)
	require.ErrorIs(t, err, ownership.ErrNotOwner)

	ev, err := o.TransferOwnership(owner, next)
	require.NoError(t, err)
	require.Equal(t, owner, ev.PreviousOwner)
	require.Equal(t, next, ev.NewOwner)
	require.Equal(t, next, o.Owner())
	require.NoError(t, o.RequireOwner(next))
}
