package seed_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/wallet/seed"
)

func TestFromMnemonic(t *testing.T) {
	// BIP39 reference vector
	s, err := seed.FromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "TREZOR")
	require.NoError(t, err)
	assert.Equal(t,
		"c55257c360c07c72029aebc1b53c05ed0362ada38ead3e3e9efa3708e53495531f09a6987599d18264c1e1c92f2cf141630c7a3c4ab7c81b2f001698e7463b04",
		hex.EncodeToString(s))

	spaced, err := seed.FromMnemonic("  abandon abandon abandon abandon abandon abandon\nabandon abandon abandon abandon abandon about ", "TREZOR")
	require.NoError(t, err)
	assert.Equal(t, s, spaced)

	seed.Zero(s)
	assert.Equal(t, make([]byte, 64), s)
}

func TestFromMnemonicWordCount(t *testing.T) {
	_, err := seed.FromMnemonic("abandon abandon about", "")
	require.Error(t, err)
}
