package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

var ErrDecrypt = errors.New("could not decrypt key with given password")

const keystoreVersion = 3

// DecryptFile reads a keystore v3 file and decrypts the private key it holds.
func DecryptFile(path string, password string) (*ecdsa.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read keystore file")
	}

	return Decrypt(raw, password)
}

// Decrypt decrypts a keystore v3 JSON document. Both scrypt and pbkdf2 KDFs are supported.
func Decrypt(raw []byte, password string) (*ecdsa.PrivateKey, error) {
	var k keyJSON
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, errors.Wrap(err, "failed to parse keystore JSON")
	}

	if k.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported keystore version: %d", k.Version)
	}
	if k.Crypto.Cipher != "aes-128-ctr" {
		return nil, fmt.Errorf("unsupported cipher: %s", k.Crypto.Cipher)
	}

	//nolint:varnamelen // iv is a common abbreviation for initialization vector
	iv, err := hex.DecodeString(k.Crypto.CipherParams.IV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode IV")
	}

	ciphertext, err := hex.DecodeString(k.Crypto.CipherText)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode ciphertext")
	}

	expectedMAC, err := hex.DecodeString(k.Crypto.MAC)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode MAC")
	}

	derivedKey, err := deriveKey(k.Crypto, password)
	if err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare(calculateMAC(derivedKey[16:32], ciphertext), expectedMAC) != 1 {
		return nil, ErrDecrypt
	}

	plaintext, err := aes128CTR(derivedKey[:16], iv, ciphertext)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decrypt key")
	}

	key, err := crypto.ToECDSA(plaintext)
	zero(plaintext)
	if err != nil {
		return nil, errors.Wrap(err, "keystore does not hold a valid secp256k1 key")
	}

	return key, nil
}

func deriveKey(c cryptoJSON, password string) ([]byte, error) {
	salt, err := hex.DecodeString(paramString(c.KDFParams, "salt"))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode salt")
	}
	dkLen := paramInt(c.KDFParams, "dklen")

	switch c.KDF {
	case "scrypt":
		key, err := scrypt.Key([]byte(password), salt,
			paramInt(c.KDFParams, "n"), paramInt(c.KDFParams, "r"), paramInt(c.KDFParams, "p"), dkLen)
		if err != nil {
			return nil, errors.Wrap(err, "failed to derive key")
		}
		return key, nil
	case "pbkdf2":
		if prf := paramString(c.KDFParams, "prf"); prf != "hmac-sha256" {
			return nil, fmt.Errorf("unsupported PBKDF2 PRF: %s", prf)
		}
		return pbkdf2.Key([]byte(password), salt, paramInt(c.KDFParams, "c"), dkLen, sha256.New), nil
	default:
		return nil, fmt.Errorf("unsupported KDF: %s", c.KDF)
	}
}

// calculateMAC is Keccak256(derivedKey[16:32] || ciphertext).
func calculateMAC(key []byte, ciphertext []byte) []byte {
	return crypto.Keccak256(key, ciphertext)
}

//nolint:varnamelen // iv is a common abbreviation for initialization vector
func aes128CTR(key []byte, iv []byte, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cipher")
	}

	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)

	return out, nil
}

// JSON numbers decode as float64.
func paramInt(params map[string]any, key string) int {
	if v, ok := params[key].(float64); ok {
		return int(v)
	}

	return 0
}

func paramString(params map[string]any, key string) string {
	if v, ok := params[key].(string); ok {
		return v
	}

	return ""
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
