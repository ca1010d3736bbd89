package faucet

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/util"
	"github/chapool/go-faucet/internal/wallet/signer"
)

// submission is a transfer the network accepted.
type submission struct {
	txHash common.Hash
	nonce  uint64
}

// submit runs the wallet's critical section: balance check, nonce allocation, signing and
// broadcast. The slot is released as soon as the node acknowledged the broadcast.
// A non-nil submission together with an error means a transaction was signed but not accepted.
func (s *service) submit(ctx context.Context, to common.Address, amount *big.Int) (*submission, error) {
	log := util.LogFromContext(ctx)

	ctx, cancel := context.WithTimeout(ctx, s.config.SubmissionTimeout)
	defer cancel()

	waitStart := s.clock.Now()
	select {
	case s.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "timed out waiting for the submission slot")
	}
	defer func() { <-s.slot }()
	s.metrics.RecordQueueWait(s.clock.Now().Sub(waitStart))

	chainID, err := s.chainIDLocked(ctx)
	if err != nil {
		return nil, err
	}

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}

	if err := s.checkBalanceLocked(ctx, head, amount); err != nil {
		return nil, err
	}

	nonce, err := s.nonces.Next(ctx)
	if err != nil {
		return nil, err
	}

	data, err := s.token.PackTransfer(to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack transfer")
	}

	req := &signer.TxRequest{
		ChainID: chainID,
		Nonce:   nonce,
		To:      s.token.Address(),
		Value:   new(big.Int),
		Data:    data,
	}

	req.GasLimit, err = s.gasLimit(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.setFees(ctx, head, req); err != nil {
		return nil, err
	}

	tx, err := s.signer.SignTx(req)
	if err != nil {
		return nil, err
	}

	sub := &submission{txHash: tx.Hash(), nonce: nonce}

	if err := s.backend.SendTransaction(ctx, tx); err != nil && !isAlreadyKnown(err) {
		// The node may still have taken the transaction. Re-sync the nonce from
		// the node instead of guessing.
		s.nonces.Invalidate()
		log.Warn().
			Err(err).
			Str("tx_hash", sub.txHash.Hex()).
			Uint64("nonce", nonce).
			Msg("Broadcast failed, nonce will be re-synced from node")
		return sub, errors.Wrap(err, "failed to broadcast transaction")
	}

	s.nonces.Advance(nonce)
	s.inflight.Add(nonce, sub.txHash, amount)
	s.metrics.RecordNonce(nonce + 1)
	s.metrics.RecordInFlight(1)

	log.Info().
		Str("tx_hash", sub.txHash.Hex()).
		Uint64("nonce", nonce).
		Uint64("gas_limit", req.GasLimit).
		Msg("Funding transfer broadcast")

	return sub, nil
}

func (s *service) chainIDLocked(ctx context.Context) (*big.Int, error) {
	if s.chainID != nil {
		return s.chainID, nil
	}

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}
	if err := s.checkChainID(chainID); err != nil {
		return nil, err
	}
	s.chainID = chainID

	return chainID, nil
}

// checkBalanceLocked rejects the transfer if the token balance at head, minus transfers
// this process broadcast that are not mined at head, cannot cover amount.
// Read failures are logged and the transfer is attempted anyway.
func (s *service) checkBalanceLocked(ctx context.Context, head *types.Header, amount *big.Int) error {
	log := util.LogFromContext(ctx)
	account := s.signer.Address()

	balance, err := s.token.BalanceOf(ctx, account, head.Number)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read token balance, submitting without balance check")
		return nil
	}

	mined, err := s.backend.NonceAt(ctx, account, head.Number)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read mined nonce, submitting without balance check")
		return nil
	}

	if pruned := s.inflight.Prune(mined); pruned > 0 {
		s.metrics.RecordInFlight(-pruned)
	}

	available := new(big.Int).Sub(balance, s.inflight.Reserved())
	if available.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientFunds, "available %s, need %s", available, amount)
	}

	return nil
}

func (s *service) gasLimit(ctx context.Context, req *signer.TxRequest) (uint64, error) {
	if s.config.GasLimit > 0 {
		return s.config.GasLimit, nil
	}

	to := req.To
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.signer.Address(),
		To:    &to,
		Value: req.Value,
		Data:  req.Data,
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gas, nil
}

// setFees prices the transaction with EIP-1559 fees (maxFee = 2*baseFee + tip) or,
// on chains without a base fee, a legacy gas price.
func (s *service) setFees(ctx context.Context, head *types.Header, req *signer.TxRequest) error {
	if head.BaseFee == nil {
		gasPrice, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to suggest gas price")
		}
		req.GasPrice = gasPrice
		return nil
	}

	tip, err := s.backend.SuggestGasTipCap(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to suggest gas tip cap")
	}

	feeCap := new(big.Int).Mul(head.BaseFee, big.NewInt(2)) //nolint:mnd
	feeCap.Add(feeCap, tip)

	req.GasTipCap = tip
	req.GasFeeCap = feeCap

	return nil
}

// isAlreadyKnown matches the txpool's answer for a transaction it already holds.
func isAlreadyKnown(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}
