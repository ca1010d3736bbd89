package api

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrNotReady = errors.New("server is not ready")

// ProbeReadiness checks that every component is initialized and the RPC node answers within
// the configured readiness timeout.
func ProbeReadiness(ctx context.Context, s *Server) error {
	if !s.Ready() {
		return ErrNotReady
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.Management.ProbeReadinessTimeout)
	defer cancel()

	if _, err := s.Chain.ChainID(ctx); err != nil {
		return errors.Wrap(err, "failed to reach RPC node")
	}

	return nil
}

// ProbeLiveness runs the readiness probe and additionally verifies the faucet wallet can pay
// for at least one more transfer. All failures are returned.
func ProbeLiveness(ctx context.Context, s *Server) []error {
	if err := ProbeReadiness(ctx, s); err != nil {
		return []error{err}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.Management.ProbeReadinessTimeout)
	defer cancel()

	balance, err := s.Faucet.Balance(ctx)
	if err != nil {
		return []error{errors.Wrap(err, "failed to read wallet balance")}
	}

	log.Debug().
		Str("address", balance.Address.Hex()).
		Str("token", balance.Token.String()).
		Str("native", balance.Native.String()).
		Uint64("pending_nonce", balance.PendingNonce).
		Msg("Wallet balance")

	var errs []error
	if balance.Token.Cmp(s.Config.Faucet.FundingAmount) < 0 {
		errs = append(errs, fmt.Errorf("token balance %s is below the funding amount %s", balance.Token, s.Config.Faucet.FundingAmount))
	}
	if balance.Native.Sign() == 0 {
		errs = append(errs, errors.New("native balance is zero, transfers cannot pay for gas"))
	}

	return errs
}
