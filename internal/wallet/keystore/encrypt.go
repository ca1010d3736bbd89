package keystore

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Encrypt stores key as a keystore v3 JSON document protected by password.
//
//nolint:varnamelen // iv is a common abbreviation for initialization vector
func Encrypt(key *ecdsa.PrivateKey, password string, params ScryptParams) ([]byte, error) {
	salt := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate salt")
	}

	iv := make([]byte, 16) //nolint:mnd // AES-128-CTR
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "failed to generate IV")
	}

	derivedKey, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.DKLen)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive key")
	}

	keyBytes := crypto.FromECDSA(key)
	defer zero(keyBytes)

	ciphertext, err := aes128CTR(derivedKey[:16], iv, keyBytes)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt key")
	}

	address := crypto.PubkeyToAddress(key.PublicKey)

	return json.Marshal(keyJSON{
		Address: strings.ToLower(address.Hex()[2:]),
		ID:      uuid.New().String(),
		Version: keystoreVersion,
		Crypto: cryptoJSON{
			Cipher:       "aes-128-ctr",
			CipherText:   hex.EncodeToString(ciphertext),
			CipherParams: cipherParamsJSON{IV: hex.EncodeToString(iv)},
			KDF:          "scrypt",
			KDFParams: map[string]any{
				"dklen": params.DKLen,
				"salt":  hex.EncodeToString(salt),
				"n":     params.N,
				"r":     params.R,
				"p":     params.P,
			},
			MAC: hex.EncodeToString(calculateMAC(derivedKey[16:32], ciphertext)),
		},
	})
}
