package faucet

import (
	"context"
	"math/big"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/chain"
	"github/chapool/go-faucet/internal/metrics"
	"github/chapool/go-faucet/internal/util"
	"github/chapool/go-faucet/internal/wallet/address"
	"github/chapool/go-faucet/internal/wallet/signer"
)

// Service funds addresses with a fixed amount of one ERC-20 token from a single wallet.
type Service interface {
	// Fund transfers the configured amount to addr. Failures are *FundingError values
	// matching one of ErrInvalidAddress, ErrSubmissionFailed, ErrConfirmationTimeout
	// or ErrConfirmationFailed.
	Fund(ctx context.Context, addr string) (*Outcome, error)

	// Address returns the faucet wallet address.
	Address() common.Address

	// Balance reads the wallet's token and native balances.
	Balance(ctx context.Context) (*WalletBalance, error)

	// Preflight checks the chain connection and logs the wallet state at startup.
	Preflight(ctx context.Context) error
}

type Config struct {
	TokenSymbol   string
	FundingAmount *big.Int

	// ExpectedChainID is compared against the node's chain ID, nil trusts the node.
	ExpectedChainID *big.Int
	// GasLimit of 0 estimates gas per transfer.
	GasLimit uint64

	WaitForConfirmation      bool
	Confirmations            uint64
	ConfirmationTimeout      time.Duration
	ConfirmationPollInterval time.Duration
	SubmissionTimeout        time.Duration
}

type service struct {
	config  Config
	backend chain.Backend
	token   *chain.Token
	signer  *signer.Signer
	waiter  *chain.ReceiptWaiter
	metrics metrics.Metricer
	clock   time2.Clock

	// slot is the wallet's single-slot submission queue. Holding it covers
	// balance check, nonce allocation, signing and broadcast.
	slot     chan struct{}
	nonces   *nonceTracker
	inflight *ledger
	chainID  *big.Int // cached under slot
}

// NewService creates a new faucet Service
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(
	config Config,
	backend chain.Backend,
	token *chain.Token,
	signer *signer.Signer,
	metricer metrics.Metricer,
	clock time2.Clock,
) Service {
	if metricer == nil {
		metricer = metrics.NoopMetrics{}
	}
	if clock == nil {
		clock = time2.DefaultClock
	}

	return &service{
		config:   config,
		backend:  backend,
		token:    token,
		signer:   signer,
		waiter:   chain.NewReceiptWaiter(backend, config.ConfirmationPollInterval, config.Confirmations),
		metrics:  metricer,
		clock:    clock,
		slot:     make(chan struct{}, 1),
		nonces:   newNonceTracker(backend, signer.Address()),
		inflight: newLedger(),
	}
}

func (s *service) Address() common.Address {
	return s.signer.Address()
}

func (s *service) Fund(ctx context.Context, addr string) (*Outcome, error) {
	log := util.LogFromContext(ctx).With().
		Str("action", "funding-"+s.config.TokenSymbol).
		Str("address", addr).
		Logger()
	ctx = log.WithContext(ctx)

	onDone := s.metrics.RecordFundAction(s.config.TokenSymbol)
	req := NewRequest(addr, s.config.FundingAmount)

	outcome, err := s.fund(ctx, req)

	s.recordOutcome(onDone, outcome, err)
	log.Debug().Str("state", req.State().String()).Err(err).Msg("Funding request finished")

	return outcome, err
}

func (s *service) fund(ctx context.Context, req *Request) (*Outcome, error) {
	fail := func(fe *FundingError) (*Outcome, error) {
		_ = req.Transition(StateFailed)
		return nil, fe
	}

	_ = req.Transition(StateValidating)
	to, err := address.Parse(req.Address)
	if err != nil {
		return fail(&FundingError{Kind: ErrInvalidAddress, Address: req.Address, Err: err})
	}

	_ = req.Transition(StateSubmitting)
	sub, err := s.submit(ctx, to, req.Amount)
	if err != nil {
		fe := &FundingError{Kind: ErrSubmissionFailed, Address: req.Address, Err: err}
		if sub != nil {
			fe.TxHash, fe.Nonce = sub.txHash, sub.nonce
		}
		return fail(fe)
	}

	outcome := &Outcome{
		Status:  StatusSubmitted,
		Address: to,
		Amount:  new(big.Int).Set(req.Amount),
		TxHash:  sub.txHash,
		Nonce:   sub.nonce,
	}

	if !s.config.WaitForConfirmation {
		_ = req.Transition(StateSucceeded)
		return outcome, nil
	}

	_ = req.Transition(StateConfirming)
	if err := s.confirm(ctx, sub, outcome); err != nil {
		var fe *FundingError
		if errors.As(err, &fe) {
			fe.Address = req.Address
			return fail(fe)
		}
		return fail(&FundingError{Kind: ErrConfirmationTimeout, Address: req.Address, TxHash: sub.txHash, Nonce: sub.nonce, Err: err})
	}

	_ = req.Transition(StateSucceeded)

	return outcome, nil
}

func (s *service) recordOutcome(onDone func(string, float64), outcome *Outcome, err error) {
	amount, _ := new(big.Float).SetInt(s.config.FundingAmount).Float64()

	switch {
	case err == nil && outcome.Status == StatusConfirmed:
		onDone(metrics.OutcomeSuccess, amount)
	case err == nil:
		onDone(metrics.OutcomeSubmitted, amount)
	case errors.Is(err, ErrInvalidAddress):
		onDone(metrics.OutcomeInvalidAddress, 0)
	case errors.Is(err, ErrConfirmationFailed):
		onDone(metrics.OutcomeConfirmationFailed, 0)
	case errors.Is(err, ErrConfirmationTimeout):
		onDone(metrics.OutcomeTimeout, 0)
	default:
		onDone(metrics.OutcomeSubmissionFailed, 0)
	}
}

func (s *service) Balance(ctx context.Context) (*WalletBalance, error) {
	account := s.signer.Address()

	head, err := s.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}

	tokenBalance, err := s.token.BalanceOf(ctx, account, head.Number)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token balance")
	}

	native, err := s.backend.BalanceAt(ctx, account, head.Number)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get native balance")
	}

	pending, err := s.backend.PendingNonceAt(ctx, account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending nonce")
	}

	return &WalletBalance{
		Address:      account,
		Token:        tokenBalance,
		Native:       native,
		PendingNonce: pending,
		BlockNumber:  head.Number,
	}, nil
}

func (s *service) Preflight(ctx context.Context) error {
	log := util.LogFromContext(ctx)

	chainID, err := s.backend.ChainID(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to reach chain")
	}
	if err := s.checkChainID(chainID); err != nil {
		return err
	}

	event := log.Info().
		Str("wallet", s.signer.Address().Hex()).
		Str("token", s.token.Address().Hex()).
		Str("chain_id", chainID.String()).
		Str("funding_amount", s.config.FundingAmount.String())

	if symbol, err := s.token.Symbol(ctx); err == nil {
		event = event.Str("token_symbol", symbol)
	}
	if decimals, err := s.token.Decimals(ctx); err == nil {
		event = event.Uint8("token_decimals", decimals)
	}

	balance, err := s.Balance(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read faucet wallet balance")
		event.Msg("Faucet ready")
		return nil
	}

	s.metrics.RecordNonce(balance.PendingNonce)
	event.
		Str("token_balance", balance.Token.String()).
		Str("native_balance", balance.Native.String()).
		Uint64("pending_nonce", balance.PendingNonce).
		Msg("Faucet ready")

	if balance.Token.Cmp(s.config.FundingAmount) < 0 {
		log.Warn().
			Str("token_balance", balance.Token.String()).
			Msg("Faucet wallet cannot cover a single funding request")
	}
	if balance.Native.Sign() == 0 {
		log.Warn().Msg("Faucet wallet has no native balance to pay for gas")
	}

	return nil
}

func (s *service) checkChainID(chainID *big.Int) error {
	if s.config.ExpectedChainID == nil || s.config.ExpectedChainID.Sign() == 0 {
		return nil
	}
	if chainID.Cmp(s.config.ExpectedChainID) != 0 {
		return errors.Wrapf(ErrChainIDMismatch, "node reports %s, expected %s", chainID, s.config.ExpectedChainID)
	}

	return nil
}
