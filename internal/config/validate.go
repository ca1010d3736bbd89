package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// FieldError describes a single invalid or missing configuration key.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Key, e.Reason)
}

// ValidationError is returned by Validate and lists every offending key at once.
// Each wrapped error is a *FieldError.
type ValidationError struct {
	errs *multierror.Error
}

func (e *ValidationError) Error() string {
	return e.errs.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.errs
}

// Fields returns the individual key errors.
func (e *ValidationError) Fields() []*FieldError {
	fields := make([]*FieldError, 0, len(e.errs.Errors))
	for _, err := range e.errs.Errors {
		var fe *FieldError
		if errors.As(err, &fe) {
			fields = append(fields, fe)
		}
	}

	return fields
}

// Keys returns the environment keys that failed validation.
func (e *ValidationError) Keys() []string {
	fields := e.Fields()
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}

	return keys
}

func formatValidationErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		parts = append(parts, err.Error())
	}

	return "invalid configuration: " + strings.Join(parts, "; ")
}

// Validate checks the configuration before any server resource is initialized.
// It returns nil or a *ValidationError.
func (c Server) Validate() error {
	var result *multierror.Error

	fail := func(key string, reason string) {
		result = multierror.Append(result, &FieldError{Key: key, Reason: reason})
	}

	if len(c.Chain.RPCURLs) == 0 {
		fail("RPC_URL", "at least one RPC endpoint is required")
	}
	for _, raw := range c.Chain.RPCURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			fail("RPC_URL", fmt.Sprintf("%q is not an absolute URL", raw))
		}
	}

	if !common.IsHexAddress(c.Faucet.TokenAddress) {
		fail("TOKEN_ADDRESS", "must be a hex encoded contract address")
	}
	if strings.TrimSpace(c.Faucet.TokenSymbol) == "" || strings.ContainsAny(c.Faucet.TokenSymbol, "/ ") {
		fail("TOKEN_SYMBOL", "must be a non-empty path segment")
	}
	if c.Faucet.FundingAmount == nil || c.Faucet.FundingAmount.Sign() <= 0 {
		fail("FUNDING_AMOUNT", "must be a positive integer amount of base units")
	}
	if c.Faucet.Confirmations == 0 {
		fail("CONFIRMATIONS", "must be at least 1")
	}
	if c.Faucet.ConfirmationPollInterval <= 0 {
		fail("CONFIRMATION_POLL_INTERVAL", "must be positive")
	}
	if c.Faucet.ConfirmationTimeout <= 0 {
		fail("CONFIRMATION_TIMEOUT", "must be positive")
	}
	if c.Faucet.SubmissionTimeout <= 0 {
		fail("SUBMISSION_TIMEOUT", "must be positive")
	}

	sources := 0
	for _, set := range []bool{c.Key.PrivateKey != "", c.Key.KeystoreFile != "", c.Key.Mnemonic != ""} {
		if set {
			sources++
		}
	}
	switch {
	case sources == 0:
		fail("PRIVATE_KEY", "missing signing key (set PRIVATE_KEY, KEYSTORE_FILE or MNEMONIC)")
	case sources > 1:
		fail("PRIVATE_KEY", "only one of PRIVATE_KEY, KEYSTORE_FILE or MNEMONIC may be set")
	}
	if c.Key.Mnemonic != "" && c.Key.DerivationPath == "" {
		fail("DERIVATION_PATH", "required when MNEMONIC is set")
	}

	if result == nil {
		return nil
	}
	result.ErrorFormat = formatValidationErrors

	return &ValidationError{errs: result}
}
