package faucet_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github/chapool/go-faucet/internal/faucet"
)

func TestFundingError(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := error(&faucet.FundingError{
		Kind:    faucet.ErrConfirmationTimeout,
		Address: recipient,
		TxHash:  common.HexToHash("0xabc"),
		Nonce:   9,
		Err:     cause,
	})

	assert.ErrorIs(t, err, faucet.ErrConfirmationTimeout)
	assert.NotErrorIs(t, err, faucet.ErrConfirmationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t,
		"funding "+recipient+": confirmation timed out (tx 0x0000000000000000000000000000000000000000000000000000000000000abc, nonce 9): context deadline exceeded",
		err.Error())

	wrapped := errors.Wrap(err, "handler")
	assert.ErrorIs(t, wrapped, faucet.ErrConfirmationTimeout)

	invalid := &faucet.FundingError{Kind: faucet.ErrInvalidAddress, Address: "0x1"}
	assert.Equal(t, "funding 0x1: invalid address", invalid.Error())
	assert.False(t, invalid.HasTx())
}
