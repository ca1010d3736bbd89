package config_test

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/config"
)

const testPrivateKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func validConfig() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Chain.RPCURLs = []string{config.DefaultRPCURL}
	cfg.Faucet.TokenAddress = config.DefaultTokenAddress
	cfg.Faucet.TokenSymbol = config.DefaultTokenSymbol
	cfg.Faucet.FundingAmount = config.DefaultFundingAmount
	cfg.Faucet.Confirmations = 1
	cfg.Key = config.KeySource{PrivateKey: testPrivateKey}

	return cfg
}

func TestPrintServiceEnv(t *testing.T) {
	cfg := validConfig()
	cfg.Key.KeystorePassword = "hunter2"
	cfg.Key.Mnemonic = "abandon abandon abandon"
	cfg.Key.MnemonicPassword = "hunter3"

	c, err := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, err)

	for _, secret := range []string{testPrivateKey, "hunter2", "hunter3", "abandon"} {
		assert.NotContains(t, string(c), secret)
	}
	assert.Contains(t, string(c), config.DefaultTokenAddress)
}

func TestDefaults(t *testing.T) {
	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "1000000000000000", config.DefaultFundingAmount.String())
	assert.NotSame(t, config.DefaultFundingAmount, cfg.Faucet.FundingAmount)
	assert.Equal(t, "m/44'/60'/0'/0/0", config.DefaultDerivationPath)
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateMissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Key = config.KeySource{}

	err := cfg.Validate()

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"PRIVATE_KEY"}, verr.Keys())
	assert.Contains(t, err.Error(), "missing signing key")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Chain.RPCURLs = []string{"not a url"}
	cfg.Faucet.TokenAddress = "0x1234"
	cfg.Faucet.TokenSymbol = "a/b"
	cfg.Faucet.FundingAmount = big.NewInt(0)
	cfg.Faucet.Confirmations = 0
	cfg.Key = config.KeySource{PrivateKey: testPrivateKey, Mnemonic: "abandon"}

	err := cfg.Validate()

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{
		"RPC_URL",
		"TOKEN_ADDRESS",
		"TOKEN_SYMBOL",
		"FUNDING_AMOUNT",
		"CONFIRMATIONS",
		"PRIVATE_KEY",
	}, verr.Keys())
	assert.NotContains(t, err.Error(), testPrivateKey)
}

func TestValidateMnemonicRequiresPath(t *testing.T) {
	cfg := validConfig()
	cfg.Key = config.KeySource{Mnemonic: "abandon abandon", DerivationPath: ""}

	var verr *config.ValidationError
	require.ErrorAs(t, cfg.Validate(), &verr)
	assert.Equal(t, []string{"DERIVATION_PATH"}, verr.Keys())
}

func TestValidationErrorUnwrapsFields(t *testing.T) {
	cfg := validConfig()
	cfg.Faucet.TokenAddress = ""
	cfg.Faucet.SubmissionTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "invalid configuration: TOKEN_ADDRESS: must be a hex encoded contract address; SUBMISSION_TIMEOUT: must be positive", err.Error())

	var fe *config.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "TOKEN_ADDRESS", fe.Key)
}
