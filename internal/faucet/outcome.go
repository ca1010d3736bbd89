package faucet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type Status string

const (
	// StatusSubmitted is returned when the service does not wait for confirmation.
	StatusSubmitted Status = "submitted"
	StatusConfirmed Status = "confirmed"
)

// Outcome describes a successful funding request.
type Outcome struct {
	Status  Status
	Address common.Address
	Amount  *big.Int
	TxHash  common.Hash
	Nonce   uint64

	// only set once confirmed
	BlockNumber *big.Int
	GasUsed     uint64
}

// WalletBalance is a snapshot of the faucet wallet.
type WalletBalance struct {
	Address      common.Address
	Token        *big.Int
	Native       *big.Int
	PendingNonce uint64
	BlockNumber  *big.Int
}
