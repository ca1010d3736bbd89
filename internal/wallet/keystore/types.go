package keystore

// keyJSON is the Web3 Secret Storage (keystore v3) file layout.
//
//nolint:tagliatelle // field names are fixed by the keystore format
type keyJSON struct {
	Address string     `json:"address,omitempty"`
	ID      string     `json:"id"`
	Version int        `json:"version"`
	Crypto  cryptoJSON `json:"crypto"`
}

type cryptoJSON struct {
	Cipher       string           `json:"cipher"`
	CipherText   string           `json:"ciphertext"`
	CipherParams cipherParamsJSON `json:"cipherparams"`
	KDF          string           `json:"kdf"`
	KDFParams    map[string]any   `json:"kdfparams"`
	MAC          string           `json:"mac"`
}

type cipherParamsJSON struct {
	IV string `json:"iv"`
}

// ScryptParams defines scrypt KDF parameters used by Encrypt.
type ScryptParams struct {
	DKLen int // Derived key length (32 bytes)
	N     int // CPU/memory cost parameter
	R     int // Block size parameter
	P     int // Parallelization parameter
}

// StandardScryptParams returns the scrypt parameters geth uses for new keys.
func StandardScryptParams() ScryptParams {
	const (
		scryptDKLen = 32
		scryptN     = 262144 // 2^18
		scryptR     = 8
		scryptP     = 1
	)

	return ScryptParams{DKLen: scryptDKLen, N: scryptN, R: scryptR, P: scryptP}
}

// LightScryptParams are cheap parameters for tests and throwaway keys.
func LightScryptParams() ScryptParams {
	const (
		scryptDKLen = 32
		scryptN     = 4096
		scryptR     = 8
		scryptP     = 6
	)

	return ScryptParams{DKLen: scryptDKLen, N: scryptN, R: scryptR, P: scryptP}
}
