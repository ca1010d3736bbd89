package api

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/chain"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/faucet"
	"github/chapool/go-faucet/internal/metrics"
	"github/chapool/go-faucet/internal/util"
	"github/chapool/go-faucet/internal/wallet/signer"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

const chainDialTimeout = 10 * time.Second

// NewClock returns the real clock, or a mock clock when running tests or SERVER_CLOCK_USE_MOCK is set.
func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := util.GetEnvAsBool("SERVER_CLOCK_USE_MOCK", false)
	if useMock || (len(t) > 0 && t[0] != nil) {
		clock = time2.NewMockClock(time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC))
	} else {
		clock = time2.DefaultClock
	}

	return clock
}

// NoTest is used by the production injector to satisfy NewClock's variadic test parameter.
func NoTest() []*testing.T {
	return nil
}

func NewMetrics(cfg config.Server) *metrics.Metrics {
	m := metrics.NewMetrics(cfg.Metrics.Namespace)
	m.RecordInfo(config.GetFormattedBuildArgs())

	return m
}

//nolint:ireturn
func NewChainClient(cfg config.Server) (chain.Backend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), chainDialTimeout)
	defer cancel()

	client, err := chain.NewRPCClient(ctx, cfg.Chain.RPCURLs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chain client")
	}

	return client, nil
}

func NewSigner(cfg config.Server) (*signer.Signer, error) {
	return signer.Load(signer.KeySource{
		PrivateKey:       cfg.Key.PrivateKey,
		KeystoreFile:     cfg.Key.KeystoreFile,
		KeystorePassword: cfg.Key.KeystorePassword,
		Mnemonic:         cfg.Key.Mnemonic,
		MnemonicPassword: cfg.Key.MnemonicPassword,
		DerivationPath:   cfg.Key.DerivationPath,
	})
}

func NewToken(cfg config.Server, backend chain.Backend) (*chain.Token, error) {
	abiJSON, err := chain.LoadABI(cfg.Faucet.TokenABIFile)
	if err != nil {
		return nil, err
	}

	return chain.NewToken(common.HexToAddress(cfg.Faucet.TokenAddress), abiJSON, backend)
}

//nolint:ireturn
func NewFaucet(
	cfg config.Server,
	backend chain.Backend,
	token *chain.Token,
	signer *signer.Signer,
	m *metrics.Metrics,
	clock time2.Clock,
) faucet.Service {
	var metricer metrics.Metricer = metrics.NoopMetrics{}
	if cfg.Metrics.Enabled {
		metricer = m
	}

	var expectedChainID *big.Int
	if cfg.Chain.ChainID != 0 {
		expectedChainID = new(big.Int).SetUint64(cfg.Chain.ChainID)
	}

	return faucet.NewService(faucet.Config{
		TokenSymbol:              cfg.Faucet.TokenSymbol,
		FundingAmount:            cfg.Faucet.FundingAmount,
		ExpectedChainID:          expectedChainID,
		GasLimit:                 cfg.Faucet.GasLimit,
		WaitForConfirmation:      cfg.Faucet.WaitForConfirmation,
		Confirmations:            cfg.Faucet.Confirmations,
		ConfirmationTimeout:      cfg.Faucet.ConfirmationTimeout,
		ConfirmationPollInterval: cfg.Faucet.ConfirmationPollInterval,
		SubmissionTimeout:        cfg.Faucet.SubmissionTimeout,
	}, backend, token, signer, metricer, clock)
}
