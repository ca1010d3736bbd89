package faucet

import (
	"context"

	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/go-faucet/internal/util"
)

// confirm waits for the receipt of sub and fills in outcome. It runs outside the
// submission slot so confirmations of different requests overlap.
//
// The reservation of sub is released once a receipt exists. A transfer that timed out
// may still be mined, its reservation stays until the wallet's mined nonce passes it.
func (s *service) confirm(ctx context.Context, sub *submission, outcome *Outcome) error {
	log := util.LogFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.config.ConfirmationTimeout)
	defer cancel()

	receipt, err := s.waiter.Wait(ctx, sub.txHash)
	if err != nil {
		return &FundingError{Kind: ErrConfirmationTimeout, TxHash: sub.txHash, Nonce: sub.nonce, Err: err}
	}

	if s.inflight.Release(sub.nonce, sub.txHash) {
		s.metrics.RecordInFlight(-1)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return &FundingError{Kind: ErrConfirmationFailed, TxHash: sub.txHash, Nonce: sub.nonce}
	}

	outcome.Status = StatusConfirmed
	outcome.BlockNumber = receipt.BlockNumber
	outcome.GasUsed = receipt.GasUsed

	log.Info().
		Str("tx_hash", sub.txHash.Hex()).
		Uint64("nonce", sub.nonce).
		Str("block", receipt.BlockNumber.String()).
		Msg("Funding transfer confirmed")

	return nil
}
