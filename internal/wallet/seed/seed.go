package seed

import (
	"crypto/sha512"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 2048 // BIP39 standard iterations
	pbkdf2KeyLength  = 64   // BIP39 standard key length (512 bits)
)

// FromMnemonic converts a BIP39 mnemonic into its 64 byte seed.
// seed = PBKDF2(mnemonic, "mnemonic" + passphrase, 2048, 64, SHA512)
//
// Words are normalized to single spaces. Callers should Zero the seed once keys are derived.
func FromMnemonic(mnemonic string, passphrase string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	switch len(words) {
	case 12, 15, 18, 21, 24:
	default:
		return nil, fmt.Errorf("mnemonic must have 12, 15, 18, 21 or 24 words, got %d", len(words))
	}

	return pbkdf2.Key(
		[]byte(strings.Join(words, " ")),
		[]byte("mnemonic"+passphrase),
		pbkdf2Iterations,
		pbkdf2KeyLength,
		sha512.New,
	), nil
}

// Zero clears b in place.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
