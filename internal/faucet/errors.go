package faucet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidAddress is returned before any wallet interaction happened.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrSubmissionFailed means the transfer was not accepted by the network and the nonce was not consumed.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrConfirmationTimeout means the transfer was broadcast but not confirmed in time.
	// Funds may or may not have moved.
	ErrConfirmationTimeout = errors.New("confirmation timed out")
	// ErrConfirmationFailed means the transfer was mined but reverted.
	ErrConfirmationFailed = errors.New("confirmation failed")

	ErrInsufficientFunds = errors.New("insufficient token balance")
	ErrChainIDMismatch   = errors.New("chain ID mismatch")
)

// FundingError is the failed outcome of a funding request. Kind is one of the
// Err* sentinels above and matches with errors.Is.
type FundingError struct {
	Kind    error
	Address string
	TxHash  common.Hash
	Nonce   uint64
	Err     error
}

func (e *FundingError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "funding %s: %v", e.Address, e.Kind)
	if e.HasTx() {
		fmt.Fprintf(&b, " (tx %s, nonce %d)", e.TxHash.Hex(), e.Nonce)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *FundingError) Is(target error) bool {
	return target == e.Kind //nolint:errorlint,err113
}

func (e *FundingError) Unwrap() error {
	return e.Err
}

// HasTx reports whether a transaction was signed for this request.
func (e *FundingError) HasTx() bool {
	return e.TxHash != (common.Hash{})
}
