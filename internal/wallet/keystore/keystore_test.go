package keystore_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/wallet/keystore"
)

func TestEncryptDecrypt(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	raw, err := keystore.Encrypt(key, "correct horse", keystore.LightScryptParams())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	decrypted, err := keystore.DecryptFile(path, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, crypto.FromECDSA(key), crypto.FromECDSA(decrypted))

	_, err = keystore.DecryptFile(path, "wrong")
	require.ErrorIs(t, err, keystore.ErrDecrypt)
}

func TestDecryptGethVector(t *testing.T) {
	// Web3 Secret Storage test vector, password "testpassword"
	raw := `{
		"crypto": {
			"cipher": "aes-128-ctr",
			"cipherparams": {"iv": "6087dab2f9fdbbfaddc31a909735c1e6"},
			"ciphertext": "5318b4d5bcd28de64ee5559e671353e16f075ecae9f99c7a79a38af5f869aa46",
			"kdf": "pbkdf2",
			"kdfparams": {"c": 262144, "dklen": 32, "prf": "hmac-sha256", "salt": "ae3cd4e7013836a3df6bd7241b12db061dbe2c6785853cce422d148a624ce0bd"},
			"mac": "517ead924a9d0dc3124507e3393d175ce3ff7c1e96529c6c555ce9e51205e9b2"
		},
		"id": "3198bc9c-6672-5ab3-d995-4942343ae5b6",
		"version": 3
	}`

	key, err := keystore.Decrypt([]byte(raw), "testpassword")
	require.NoError(t, err)
	assert.Equal(t, "7a28b5ba57c53603b0b07b56bba752f7784bf506fa95edc395f5cf6c7514fe9d", hex.EncodeToString(crypto.FromECDSA(key)))
}

func TestDecryptRejectsUnknownVersion(t *testing.T) {
	_, err := keystore.Decrypt([]byte(`{"version": 1, "crypto": {"cipher": "aes-128-ctr"}}`), "x")
	require.Error(t, err)
}
