package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/wallet/address"
	"github/chapool/go-faucet/internal/wallet/keystore"
	"github/chapool/go-faucet/internal/wallet/seed"
)

var ErrNoKeySource = errors.New("no signing key configured")

// Signer holds the faucet's private key. The key never leaves this type:
// it is not exported, not logged and not serialized.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// New wraps an already loaded private key.
func New(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
	}
}

// FromHex parses a hex encoded private key, with or without 0x prefix.
func FromHex(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")

	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		// the underlying error may echo parts of the input
		return nil, errors.New("invalid private key")
	}

	return New(key), nil
}

// Load builds a Signer from the first configured key source.
func Load(src KeySource) (*Signer, error) {
	switch {
	case src.PrivateKey != "":
		return FromHex(src.PrivateKey)

	case src.KeystoreFile != "":
		key, err := keystore.DecryptFile(src.KeystoreFile, src.KeystorePassword)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load keystore")
		}
		return New(key), nil

	case src.Mnemonic != "":
		s, err := seed.FromMnemonic(src.Mnemonic, src.MnemonicPassword)
		if err != nil {
			return nil, errors.Wrap(err, "invalid mnemonic")
		}
		defer seed.Zero(s)

		key, err := address.DeriveKey(s, src.DerivationPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive key from mnemonic")
		}
		return New(key), nil
	}

	return nil, ErrNoKeySource
}

// Address returns the wallet address derived from the key.
func (s *Signer) Address() common.Address {
	return s.address
}

// String only exposes the address, so a Signer can be logged safely.
func (s *Signer) String() string {
	return fmt.Sprintf("Signer(%s)", s.address.Hex())
}

// GoString keeps %#v from dumping the key.
func (s *Signer) GoString() string {
	return s.String()
}

// ExportKeystore encrypts the key into a keystore v3 document protected by password.
func (s *Signer) ExportKeystore(password string, params keystore.ScryptParams) ([]byte, error) {
	return keystore.Encrypt(s.key, password, params)
}
