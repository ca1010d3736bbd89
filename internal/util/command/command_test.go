package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/test"
	"github/chapool/go-faucet/internal/util/command"
)

func TestWithServer(t *testing.T) {
	ctx := t.Context()

	var testError = errors.New("test error")

	cfg := test.NewTestConfig()
	cfg.Logger.PrettyPrintConsole = false
	// dialing HTTP endpoints is lazy, nothing is sent to this address
	cfg.Chain.RPCURLs = []string{"http://127.0.0.1:1"}

	resultErr := command.WithServer(ctx, cfg, func(_ context.Context, s *api.Server) error {
		assert.True(t, s.Ready())
		assert.Equal(t, test.TestWalletAddress, s.Signer.Address().Hex())
		assert.Equal(t, test.TestWalletAddress, s.Faucet.Address().Hex())

		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestWithServerInvalidConfig(t *testing.T) {
	cfg := test.NewTestConfig()
	cfg.Key = config.KeySource{}

	called := false
	err := command.WithServer(t.Context(), cfg, func(context.Context, *api.Server) error {
		called = true
		return nil
	})

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Keys(), "PRIVATE_KEY")
	assert.False(t, called)
}

func TestNewSubcommandGroup(t *testing.T) {
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) {}}
	group := command.NewSubcommandGroup("group", child)

	assert.Equal(t, "group", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Equal(t, "child", group.Commands()[0].Use)
}
