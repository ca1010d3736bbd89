package chain

import (
	"context"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/util"
)

// ReceiptWaiter polls for a transaction receipt until it is buried under the
// requested number of confirmations or the context ends.
type ReceiptWaiter struct {
	backend       Backend
	pollInterval  time.Duration
	confirmations uint64
}

func NewReceiptWaiter(backend Backend, pollInterval time.Duration, confirmations uint64) *ReceiptWaiter {
	if confirmations == 0 {
		confirmations = 1
	}

	return &ReceiptWaiter{
		backend:       backend,
		pollInterval:  pollInterval,
		confirmations: confirmations,
	}
}

// Wait blocks until the receipt of txHash has the configured depth.
// Lookup errors are retried until ctx is done, ctx.Err() is returned wrapped in that case.
func (w *ReceiptWaiter) Wait(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var lastErr error

	for {
		receipt, err := w.poll(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil {
			if !isNotYetAvailable(err) {
				util.LogFromContext(ctx).Debug().Err(err).Str("tx_hash", txHash.Hex()).Msg("Receipt lookup failed, retrying")
			}
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if lastErr != nil && !isNotYetAvailable(lastErr) {
				return nil, errors.Wrapf(ctx.Err(), "stopped waiting for receipt (last error: %v)", lastErr)
			}
			return nil, errors.Wrap(ctx.Err(), "stopped waiting for receipt")
		case <-time.After(w.pollInterval):
		}
	}
}

// poll returns (nil, nil) while the receipt exists but is not deep enough yet.
func (w *ReceiptWaiter) poll(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := w.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if w.confirmations <= 1 {
		return receipt, nil
	}

	head, err := w.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, err
	}

	// receipt block counts as the first confirmation
	depth := new(big.Int).Sub(head.Number, receipt.BlockNumber)
	if depth.Sign() < 0 || depth.Uint64()+1 < w.confirmations {
		return nil, nil //nolint:nilnil
	}

	return receipt, nil
}

func isNotYetAvailable(err error) bool {
	return errors.Is(err, ethereum.NotFound) ||
		// not exported from geth
		strings.Contains(err.Error(), "transaction indexing is in progress")
}
