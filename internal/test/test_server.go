package test

import (
	"context"
	"testing"
	"time"

	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/router"
	"github/chapool/go-faucet/internal/config"
)

// NewTestConfig returns the env config with the deterministic test key and
// timeouts suitable for an in-memory chain.
func NewTestConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()

	cfg.Key = config.KeySource{PrivateKey: TestPrivateKey}
	cfg.Chain.ChainID = 0
	cfg.Faucet.TokenAddress = config.DefaultTokenAddress
	cfg.Faucet.TokenSymbol = config.DefaultTokenSymbol
	cfg.Faucet.FundingAmount = config.DefaultFundingAmount
	cfg.Faucet.GasLimit = 0
	cfg.Faucet.WaitForConfirmation = true
	cfg.Faucet.Confirmations = 1
	cfg.Faucet.ConfirmationTimeout = 2 * time.Second
	cfg.Faucet.ConfirmationPollInterval = 5 * time.Millisecond
	cfg.Faucet.SubmissionTimeout = 5 * time.Second
	cfg.Management.ProbeReadinessTimeout = time.Second

	return cfg
}

// WithTestServer returns a fully configured server backed by an in-memory chain (see NewTestBackend).
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, NewTestConfig(), closure)
}

// WithTestServerConfigurable returns a fully configured server, allowing for configuration changes.
func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	s := NewTestServer(t, config)
	closure(s)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("Failed to shutdown server: %v", errs)
	}
}

func NewTestServer(t *testing.T, config config.Server) *api.Server {
	t.Helper()

	s, err := api.InitNewServerWithBackend(config, NewTestBackend(t, config), t)
	if err != nil {
		t.Fatalf("Failed to init test server: %v", err)
	}

	if err := router.Init(s); err != nil {
		t.Fatalf("Failed to init router: %v", err)
	}

	return s
}
