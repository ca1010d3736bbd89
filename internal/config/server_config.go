package config

import (
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"github/chapool/go-faucet/internal/util"
)

// DefaultRPCURL and DefaultTokenAddress point at the Gnosis chain xBZZ deployment.
const (
	DefaultRPCURL         = "https://rpc.gnosischain.com/"
	DefaultTokenAddress   = "0xdbf3ea6f5bee45c02255b2c26a16f300502f68da"
	DefaultTokenSymbol    = "xbzz"
	DefaultDerivationPath = "m/44'/60'/0'/0/0"
)

// DefaultFundingAmount is 0.1 xBZZ (16 decimals) in base units.
var DefaultFundingAmount = new(big.Int).Exp(big.NewInt(10), big.NewInt(15), nil) //nolint:mnd

type EchoServer struct {
	Debug                         bool
	ListenAddress                 string
	EnableCORSMiddleware          bool
	EnableLoggerMiddleware        bool
	EnableRecoverMiddleware       bool
	EnableRequestIDMiddleware     bool
	EnableTrailingSlashMiddleware bool
	EnableBodyLimitMiddleware     bool
	BodyLimit                     string
	EnableSecureMiddleware        bool
}

type LoggerServer struct {
	Level              zerolog.Level
	RequestLevel       zerolog.Level
	LogRequestHeader   bool
	LogResponseHeader  bool
	PrettyPrintConsole bool
}

type ManagementServer struct {
	ProbeReadinessTimeout time.Duration
}

type MetricsServer struct {
	Enabled   bool
	Namespace string
}

// KeySource holds the signing key material. Exactly one of PrivateKey, KeystoreFile or Mnemonic must be set.
// None of these fields are ever serialized.
type KeySource struct {
	PrivateKey       string `json:"-"`
	KeystoreFile     string
	KeystorePassword string `json:"-"`
	Mnemonic         string `json:"-"`
	MnemonicPassword string `json:"-"`
	DerivationPath   string
}

type Chain struct {
	RPCURLs []string
	// ChainID is the expected chain id, 0 trusts whatever the RPC reports.
	ChainID uint64
}

type Faucet struct {
	TokenAddress  string
	TokenSymbol   string
	TokenABIFile  string
	FundingAmount *big.Int

	// GasLimit of 0 estimates the gas for every transfer.
	GasLimit uint64

	WaitForConfirmation      bool
	Confirmations            uint64
	ConfirmationTimeout      time.Duration
	ConfirmationPollInterval time.Duration
	SubmissionTimeout        time.Duration
}

type Server struct {
	Echo       EchoServer
	Logger     LoggerServer
	Management ManagementServer
	Metrics    MetricsServer
	Chain      Chain
	Faucet     Faucet
	Key        KeySource
}

// DefaultServiceConfigFromEnv returns the server config as parsed from environment variables
// and their respective defaults defined below.
// We don't expect that ENV_VARs change while we are running our application or our tests
// (and it would be a bad thing to do anyways with parallel testing).
// Do NOT use os.Setenv / os.Unsetenv in tests utilizing DefaultServiceConfigFromEnv()!
func DefaultServiceConfigFromEnv() Server {
	// An `.env.local` file in your project root can override the currently set ENV variables.
	//
	// We never automatically apply `.env.local` when running "go test" as these ENV variables
	// may be sensitive (e.g. secrets to external APIs) and applying them modifies the process global "os.Env" state.
	// Use `cmd --env-file <path>` to apply another dotenv file explicitly.
	if !util.RunningInTest() {
		DotEnvTryLoad(util.GetProjectRootDir()+"/.env.local", DotEnvSetEnvIfUnset)
	}

	return Server{
		Echo: EchoServer{
			Debug:                         util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                 util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", "0.0.0.0:3186"),
			EnableCORSMiddleware:          util.GetEnvAsBool("SERVER_ECHO_ENABLE_CORS_MIDDLEWARE", true),
			EnableLoggerMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
			EnableRecoverMiddleware:       util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:     util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableTrailingSlashMiddleware: util.GetEnvAsBool("SERVER_ECHO_ENABLE_TRAILING_SLASH_MIDDLEWARE", true),
			EnableBodyLimitMiddleware:     util.GetEnvAsBool("SERVER_ECHO_ENABLE_BODY_LIMIT_MIDDLEWARE", true),
			BodyLimit:                     util.GetEnv("SERVER_ECHO_BODY_LIMIT", "4K"),
			EnableSecureMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_SECURE_MIDDLEWARE", true),
		},
		Logger: LoggerServer{
			Level:              util.LogLevelFromString(util.GetEnvFirst([]string{"SERVER_LOGGER_LEVEL", "LOG_LEVEL"}, zerolog.WarnLevel.String())),
			RequestLevel:       util.LogLevelFromString(util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", zerolog.DebugLevel.String())),
			LogRequestHeader:   util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_HEADER", false),
			LogResponseHeader:  util.GetEnvAsBool("SERVER_LOGGER_LOG_RESPONSE_HEADER", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Management: ManagementServer{
			ProbeReadinessTimeout: util.GetEnvAsDuration("SERVER_MANAGEMENT_PROBE_READINESS_TIMEOUT", 5*time.Second), //nolint:mnd
		},
		Metrics: MetricsServer{
			Enabled:   util.GetEnvAsBool("SERVER_METRICS_ENABLED", true),
			Namespace: util.GetEnv("SERVER_METRICS_NAMESPACE", "faucet"),
		},
		Chain: Chain{
			RPCURLs: util.GetEnvAsStringArr("RPC_URL", []string{DefaultRPCURL}),
			ChainID: util.GetEnvAsUint64("CHAIN_ID", 0),
		},
		Faucet: Faucet{
			TokenAddress:             util.GetEnvFirst([]string{"TOKEN_ADDRESS", "XBZZ_ADDRESS"}, DefaultTokenAddress),
			TokenSymbol:              util.GetEnv("TOKEN_SYMBOL", DefaultTokenSymbol),
			TokenABIFile:             util.GetEnv("TOKEN_ABI_FILE", ""),
			FundingAmount:            util.GetEnvAsBigInt("FUNDING_AMOUNT", new(big.Int).Set(DefaultFundingAmount)),
			GasLimit:                 util.GetEnvAsUint64("GAS_LIMIT", 0),
			WaitForConfirmation:      util.GetEnvAsBool("WAIT_FOR_CONFIRMATION", true),
			Confirmations:            util.GetEnvAsUint64("CONFIRMATIONS", 1),
			ConfirmationTimeout:      util.GetEnvAsDuration("CONFIRMATION_TIMEOUT", 2*time.Minute),       //nolint:mnd
			ConfirmationPollInterval: util.GetEnvAsDuration("CONFIRMATION_POLL_INTERVAL", 2*time.Second), //nolint:mnd
			SubmissionTimeout:        util.GetEnvAsDuration("SUBMISSION_TIMEOUT", time.Minute),
		},
		Key: KeySource{
			PrivateKey:       util.GetEnv("PRIVATE_KEY", ""),
			KeystoreFile:     util.GetEnv("KEYSTORE_FILE", ""),
			KeystorePassword: util.GetEnv("KEYSTORE_PASSWORD", ""),
			Mnemonic:         util.GetEnv("MNEMONIC", ""),
			MnemonicPassword: util.GetEnv("MNEMONIC_PASSWORD", ""),
			DerivationPath:   util.GetEnv("DERIVATION_PATH", DefaultDerivationPath),
		},
	}
}
