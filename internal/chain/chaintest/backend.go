// Package chaintest provides an in-memory chain.Backend with a single ERC-20 token.
// It enforces nonce ordering and balances the way a node would, so faucet tests can
// assert on what actually got broadcast and mined.
package chaintest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github/chapool/go-faucet/internal/chain"
	"github/chapool/go-faucet/internal/chain/contracts"
)

const (
	DefaultChainID  = 1337
	TransferGasUsed = 51_000
)

// Transfer is a token transfer the backend has accepted.
type Transfer struct {
	Hash   common.Hash
	From   common.Address
	To     common.Address
	Amount *big.Int
	Nonce  uint64
	// Mined is false until the transfer is included, Reverted is only meaningful once mined.
	Mined    bool
	Reverted bool
}

// Backend is safe for concurrent use.
type Backend struct {
	// SendHook runs before a transaction is accepted. A non-nil error rejects the transaction.
	SendHook func(tx *types.Transaction) error
	// AcceptedErr is returned by SendTransaction after the transaction was accepted,
	// simulating a node that took the transaction but whose answer got lost.
	AcceptedErr func(tx *types.Transaction) error
	// RevertHook marks a transaction as reverted when mined.
	RevertHook func(tx *types.Transaction) bool
	// SendDelay widens race windows in concurrency tests.
	SendDelay time.Duration

	mu            sync.Mutex
	chainID       *big.Int
	signer        types.Signer
	erc20         abi.ABI
	token         common.Address
	baseFee       *big.Int
	head          uint64
	autoMine      bool
	tokenBalances map[common.Address]*big.Int
	nativeBalance map[common.Address]*big.Int
	minedNonce    map[common.Address]uint64
	pendingNonce  map[common.Address]uint64
	pending       []*types.Transaction
	transfers     []*Transfer
	receipts      map[common.Hash]*types.Receipt

	calls atomic.Int64
}

var _ chain.Backend = (*Backend)(nil)

// New returns a backend on chain DefaultChainID that mines every accepted transaction immediately.
func New(token common.Address) *Backend {
	parsed, err := abi.JSON(strings.NewReader(contracts.ERC20))
	if err != nil {
		panic(err)
	}

	chainID := big.NewInt(DefaultChainID)

	return &Backend{
		chainID:       chainID,
		signer:        types.LatestSignerForChainID(chainID),
		erc20:         parsed,
		token:         token,
		baseFee:       big.NewInt(1_000_000_000),
		head:          1,
		autoMine:      true,
		tokenBalances: make(map[common.Address]*big.Int),
		nativeBalance: make(map[common.Address]*big.Int),
		minedNonce:    make(map[common.Address]uint64),
		pendingNonce:  make(map[common.Address]uint64),
		receipts:      make(map[common.Hash]*types.Receipt),
	}
}

// SetAutoMine toggles immediate inclusion. With auto mining off, transactions stay pending until Mine.
func (b *Backend) SetAutoMine(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoMine = enabled
}

// SetBaseFee sets the head base fee, nil turns the chain into a pre-London chain.
func (b *Backend) SetBaseFee(baseFee *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.baseFee = baseFee
}

func (b *Backend) SetTokenBalance(account common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenBalances[account] = new(big.Int).Set(amount)
}

func (b *Backend) SetNativeBalance(account common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nativeBalance[account] = new(big.Int).Set(amount)
}

// SetNonce sets both the mined and the pending nonce of account.
func (b *Backend) SetNonce(account common.Address, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.minedNonce[account] = nonce
	b.pendingNonce[account] = nonce
}

func (b *Backend) TokenBalance(account common.Address) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tokenBalanceLocked(account)
}

// Transfers returns a copy of every accepted transfer in acceptance order.
func (b *Backend) Transfers() []Transfer {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Transfer, 0, len(b.transfers))
	for _, t := range b.transfers {
		out = append(out, *t)
	}
	return out
}

// Calls returns the number of Backend method invocations so far.
func (b *Backend) Calls() int64 {
	return b.calls.Load()
}

// Mine includes all pending transactions in one new block.
func (b *Backend) Mine() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mineLocked()
}

// AdvanceBlocks adds empty blocks on top of the head.
func (b *Backend) AdvanceBlocks(n uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head += n
}

func (b *Backend) ChainID(_ context.Context) (*big.Int, error) {
	b.calls.Add(1)
	return new(big.Int).Set(b.chainID), nil
}

func (b *Backend) HeaderByNumber(_ context.Context, number *big.Int) (*types.Header, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()

	head := new(big.Int).SetUint64(b.head)
	if number != nil && number.Cmp(head) < 0 {
		head = new(big.Int).Set(number)
	}

	header := &types.Header{Number: head}
	if b.baseFee != nil {
		header.BaseFee = new(big.Int).Set(b.baseFee)
	}
	return header, nil
}

func (b *Backend) BalanceAt(_ context.Context, account common.Address, _ *big.Int) (*big.Int, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()

	if bal, ok := b.nativeBalance[account]; ok {
		return new(big.Int).Set(bal), nil
	}
	return new(big.Int), nil
}

func (b *Backend) NonceAt(_ context.Context, account common.Address, _ *big.Int) (uint64, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.minedNonce[account], nil
}

func (b *Backend) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pendingNonce[account], nil
}

func (b *Backend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.To == nil || *msg.To != b.token {
		return nil, nil
	}

	method, args, err := b.decodeLocked(msg.Data)
	if err != nil {
		return nil, err
	}

	switch method.Name {
	case "balanceOf":
		account, _ := args[0].(common.Address)
		return method.Outputs.Pack(b.tokenBalanceLocked(account))
	case "decimals":
		return method.Outputs.Pack(uint8(16)) //nolint:mnd
	case "symbol":
		return method.Outputs.Pack("xBZZ")
	case "name":
		return method.Outputs.Pack("xBZZ Token")
	default:
		return nil, fmt.Errorf("execution reverted: %s is not callable", method.Name)
	}
}

func (b *Backend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	b.calls.Add(1)
	return big.NewInt(2_000_000_000), nil
}

func (b *Backend) SuggestGasTipCap(_ context.Context) (*big.Int, error) {
	b.calls.Add(1)
	return big.NewInt(1_000_000_000), nil
}

// EstimateGas fails like a node would when the transfer would revert against the current state.
func (b *Backend) EstimateGas(_ context.Context, msg ethereum.CallMsg) (uint64, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()

	if msg.To == nil || *msg.To != b.token {
		return 21_000, nil //nolint:mnd
	}

	method, args, err := b.decodeLocked(msg.Data)
	if err != nil {
		return 0, err
	}
	if method.Name != "transfer" {
		return TransferGasUsed, nil
	}

	amount, _ := args[1].(*big.Int)
	if b.tokenBalanceLocked(msg.From).Cmp(amount) < 0 {
		return 0, errors.New("execution reverted: ERC20: transfer amount exceeds balance")
	}
	return TransferGasUsed, nil
}

func (b *Backend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.calls.Add(1)
	if b.SendDelay > 0 {
		time.Sleep(b.SendDelay)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	from, err := types.Sender(b.signer, tx)
	if err != nil {
		return fmt.Errorf("invalid sender: %w", err)
	}

	if _, known := b.receipts[tx.Hash()]; known || b.isPendingLocked(tx.Hash()) {
		return errors.New("already known")
	}

	switch expected := b.pendingNonce[from]; {
	case tx.Nonce() < expected:
		return fmt.Errorf("nonce too low: address %s, tx: %d state: %d", from.Hex(), tx.Nonce(), expected)
	case tx.Nonce() > expected:
		return fmt.Errorf("nonce too high: address %s, tx: %d state: %d", from.Hex(), tx.Nonce(), expected)
	}

	if b.SendHook != nil {
		if err := b.SendHook(tx); err != nil {
			return err
		}
	}

	transfer := &Transfer{Hash: tx.Hash(), From: from, Nonce: tx.Nonce()}
	if tx.To() != nil && *tx.To() == b.token {
		if method, args, err := b.decodeLocked(tx.Data()); err == nil && method.Name == "transfer" {
			transfer.To, _ = args[0].(common.Address)
			transfer.Amount, _ = args[1].(*big.Int)
		}
	}

	b.pendingNonce[from]++
	b.pending = append(b.pending, tx)
	b.transfers = append(b.transfers, transfer)

	if b.autoMine {
		b.mineLocked()
	}

	if b.AcceptedErr != nil {
		return b.AcceptedErr(tx)
	}
	return nil
}

func (b *Backend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.calls.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()

	receipt, ok := b.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	cp := *receipt
	return &cp, nil
}

func (b *Backend) mineLocked() {
	if len(b.pending) == 0 {
		return
	}

	b.head++
	block := new(big.Int).SetUint64(b.head)
	blockHash := common.BigToHash(block)

	for i, tx := range b.pending {
		transfer := b.transferLocked(tx.Hash())
		status := types.ReceiptStatusSuccessful

		switch {
		case b.RevertHook != nil && b.RevertHook(tx):
			status = types.ReceiptStatusFailed
		case transfer.Amount != nil:
			from := b.tokenBalanceLocked(transfer.From)
			if from.Cmp(transfer.Amount) < 0 {
				status = types.ReceiptStatusFailed
				break
			}
			b.tokenBalances[transfer.From] = new(big.Int).Sub(from, transfer.Amount)
			b.tokenBalances[transfer.To] = new(big.Int).Add(b.tokenBalanceLocked(transfer.To), transfer.Amount)
		}

		transfer.Mined = true
		transfer.Reverted = status == types.ReceiptStatusFailed
		b.minedNonce[transfer.From] = tx.Nonce() + 1
		b.receipts[tx.Hash()] = &types.Receipt{
			Type:              tx.Type(),
			Status:            status,
			CumulativeGasUsed: TransferGasUsed * uint64(i+1),
			TxHash:            tx.Hash(),
			GasUsed:           TransferGasUsed,
			BlockHash:         blockHash,
			BlockNumber:       new(big.Int).Set(block),
			TransactionIndex:  uint(i), //nolint:gosec
		}
	}

	b.pending = nil
}

func (b *Backend) decodeLocked(data []byte) (*abi.Method, []any, error) {
	const selectorLength = 4
	if len(data) < selectorLength {
		return nil, nil, errors.New("execution reverted: missing selector")
	}

	method, err := b.erc20.MethodById(data[:selectorLength])
	if err != nil {
		return nil, nil, fmt.Errorf("execution reverted: %w", err)
	}

	args, err := method.Inputs.Unpack(data[selectorLength:])
	if err != nil {
		return nil, nil, fmt.Errorf("execution reverted: %w", err)
	}

	return method, args, nil
}

func (b *Backend) tokenBalanceLocked(account common.Address) *big.Int {
	if bal, ok := b.tokenBalances[account]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

func (b *Backend) transferLocked(hash common.Hash) *Transfer {
	for _, t := range b.transfers {
		if t.Hash == hash {
			return t
		}
	}
	return &Transfer{Hash: hash}
}

func (b *Backend) isPendingLocked(hash common.Hash) bool {
	for _, tx := range b.pending {
		if tx.Hash() == hash {
			return true
		}
	}
	return false
}
