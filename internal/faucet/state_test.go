package faucet_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/faucet"
)

func TestRequestLifecycle(t *testing.T) {
	req := faucet.NewRequest(recipient, big.NewInt(1))
	assert.Equal(t, faucet.StateReceived, req.State())

	for _, next := range []faucet.State{
		faucet.StateValidating,
		faucet.StateSubmitting,
		faucet.StateConfirming,
		faucet.StateSucceeded,
	} {
		require.NoError(t, req.Transition(next))
		assert.Equal(t, next, req.State())
	}
	assert.True(t, req.State().Terminal())

	err := req.Transition(faucet.StateFailed)
	require.ErrorIs(t, err, faucet.ErrIllegalTransition)
	assert.Equal(t, faucet.StateSucceeded, req.State())
}

func TestStateTransitions(t *testing.T) {
	tests := []struct {
		from, to faucet.State
		allowed  bool
	}{
		{faucet.StateReceived, faucet.StateValidating, true},
		{faucet.StateReceived, faucet.StateSubmitting, false},
		{faucet.StateValidating, faucet.StateFailed, true},
		{faucet.StateValidating, faucet.StateConfirming, false},
		{faucet.StateSubmitting, faucet.StateSucceeded, true},
		{faucet.StateSubmitting, faucet.StateValidating, false},
		{faucet.StateConfirming, faucet.StateFailed, true},
		{faucet.StateConfirming, faucet.StateSubmitting, false},
		{faucet.StateFailed, faucet.StateSubmitting, false},
		{faucet.StateSucceeded, faucet.StateSucceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.Equal(t, "State(42)", faucet.State(42).String())
}
