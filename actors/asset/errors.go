package asset

import "golang.org/x/xerrors"

var (
	// ErrInsufficientBalance is returned by Transfer/TransferFrom when the
	// source account does not hold enough of the asset.
	ErrInsufficientBalance = xerrors.New("insufficient balance")

	// ErrInsufficientAllowance is returned by TransferFrom when the spender
	// has not been granted enough allowance by the source account.
	ErrInsufficientAllowance = xerrors.New("insufficient allowance")
)
