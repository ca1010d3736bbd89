package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest describes a transaction to be built and signed by the faucet wallet.
// A nil GasFeeCap selects a legacy transaction priced at GasPrice.
type TxRequest struct {
	ChainID   *big.Int
	Nonce     uint64
	To        common.Address
	Value     *big.Int
	Data      []byte
	GasLimit  uint64
	GasTipCap *big.Int // EIP-1559 max priority fee per gas
	GasFeeCap *big.Int // EIP-1559 max fee per gas
	GasPrice  *big.Int // legacy
}

// KeySource selects where the signing key comes from. Exactly one of
// PrivateKey, KeystoreFile or Mnemonic is expected to be set.
type KeySource struct {
	PrivateKey       string
	KeystoreFile     string
	KeystorePassword string
	Mnemonic         string
	MnemonicPassword string
	DerivationPath   string
}
