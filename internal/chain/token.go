package chain

import (
	"context"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/chain/contracts"
)

const (
	methodTransfer  = "transfer"
	methodBalanceOf = "balanceOf"
	methodDecimals  = "decimals"
	methodSymbol    = "symbol"
)

// Token is a read/pack binding for one ERC-20 contract.
type Token struct {
	address common.Address
	abi     abi.ABI
	backend Backend
}

// LoadABI returns the ABI JSON at path, or the embedded ERC-20 ABI if path is empty.
func LoadABI(path string) (string, error) {
	if path == "" {
		return contracts.ERC20, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read ABI file %s", path)
	}

	return string(raw), nil
}

// NewToken parses abiJSON and binds it to the contract at address.
// The ABI must at least expose transfer(address,uint256) and balanceOf(address).
func NewToken(address common.Address, abiJSON string, backend Backend) (*Token, error) {
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token ABI")
	}

	for _, method := range []string{methodTransfer, methodBalanceOf} {
		if _, ok := parsed.Methods[method]; !ok {
			return nil, errors.Errorf("token ABI is missing method %s", method)
		}
	}

	return &Token{
		address: address,
		abi:     parsed,
		backend: backend,
	}, nil
}

func (t *Token) Address() common.Address {
	return t.address
}

// PackTransfer encodes transfer(to, amount) calldata.
func (t *Token) PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := t.abi.Pack(methodTransfer, to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack transfer")
	}

	return data, nil
}

// UnpackTransfer decodes transfer calldata back into recipient and amount.
func (t *Token) UnpackTransfer(data []byte) (common.Address, *big.Int, error) {
	const selectorLength = 4
	if len(data) < selectorLength {
		return common.Address{}, nil, errors.New("calldata too short")
	}

	method, err := t.abi.MethodById(data[:selectorLength])
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "unknown method selector")
	}
	if method.Name != methodTransfer {
		return common.Address{}, nil, errors.Errorf("calldata is %s, not transfer", method.Name)
	}

	args, err := method.Inputs.Unpack(data[selectorLength:])
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed to unpack transfer arguments")
	}

	const transferArgs = 2
	if len(args) != transferArgs {
		return common.Address{}, nil, errors.Errorf("unexpected transfer argument count %d", len(args))
	}

	to, ok := args[0].(common.Address)
	if !ok {
		return common.Address{}, nil, errors.New("transfer recipient is not an address")
	}
	amount, ok := args[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, errors.New("transfer amount is not an integer")
	}

	return to, amount, nil
}

// BalanceOf returns the token balance of account at blockNumber (nil = latest).
func (t *Token) BalanceOf(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	out, err := t.call(ctx, blockNumber, methodBalanceOf, account)
	if err != nil {
		return nil, err
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("balanceOf returned a non-integer")
	}

	return balance, nil
}

func (t *Token) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, nil, methodDecimals)
	if err != nil {
		return 0, err
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.New("decimals returned a non-uint8")
	}

	return decimals, nil
}

func (t *Token) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, nil, methodSymbol)
	if err != nil {
		return "", err
	}

	symbol, ok := out[0].(string)
	if !ok {
		return "", errors.New("symbol returned a non-string")
	}

	return symbol, nil
}

func (t *Token) call(ctx context.Context, blockNumber *big.Int, method string, args ...any) ([]any, error) {
	if _, ok := t.abi.Methods[method]; !ok {
		return nil, errors.Errorf("token ABI has no method %s", method)
	}

	data, err := t.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s", method)
	}

	out, err := t.backend.CallContract(ctx, ethereum.CallMsg{To: &t.address, Data: data}, blockNumber)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call %s", method)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty result from %s, is %s a contract?", method, t.address.Hex())
	}

	vals, err := t.abi.Unpack(method, out)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s", method)
	}
	if len(vals) == 0 {
		return nil, errors.Errorf("no return values from %s", method)
	}

	return vals, nil
}
