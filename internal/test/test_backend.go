package test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/chain/chaintest"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/wallet/signer"
)

// Deterministic faucet wallet used by the test server. Never fund this key on a real chain.
const (
	TestPrivateKey    = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	TestWalletAddress = "0x2c7536E3605D9C16a7a3D7b1898e529396a65c23"
)

// TestWalletFunding is the token balance NewTestBackend gives the faucet wallet: 100 funding requests.
var TestWalletFunding = new(big.Int).Mul(config.DefaultFundingAmount, big.NewInt(100))

func WithTestBackend(t *testing.T, closure func(backend *chaintest.Backend)) {
	t.Helper()

	closure(NewTestBackend(t, NewTestConfig()))
}

// NewTestBackend returns an in-memory chain with the configured token deployed and the
// test wallet funded with tokens and native currency.
func NewTestBackend(t *testing.T, cfg config.Server) *chaintest.Backend {
	t.Helper()

	s, err := signer.Load(signer.KeySource{
		PrivateKey:       cfg.Key.PrivateKey,
		KeystoreFile:     cfg.Key.KeystoreFile,
		KeystorePassword: cfg.Key.KeystorePassword,
		Mnemonic:         cfg.Key.Mnemonic,
		MnemonicPassword: cfg.Key.MnemonicPassword,
		DerivationPath:   cfg.Key.DerivationPath,
	})
	require.NoError(t, err)

	backend := chaintest.New(common.HexToAddress(cfg.Faucet.TokenAddress))
	backend.SetTokenBalance(s.Address(), TestWalletFunding)
	backend.SetNativeBalance(s.Address(), big.NewInt(1e18))

	return backend
}

// Backend returns the in-memory chain behind a test server.
func Backend(t *testing.T, s *api.Server) *chaintest.Backend {
	t.Helper()

	backend, ok := s.Chain.(*chaintest.Backend)
	require.True(t, ok, "server is not backed by chaintest.Backend")

	return backend
}
