//go:build wireinject

package api

import (
	"testing"

	"github.com/google/wire"
	"github/chapool/go-faucet/internal/chain"
	"github/chapool/go-faucet/internal/config"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewClock,
	NewMetrics,
	NewSigner,
	NewToken,
	NewFaucet,
)

// InitNewServer returns a new Server instance connected to the configured RPC nodes.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewChainClient, NoTest)
	return new(Server), nil
}

// InitNewServerWithBackend returns a new Server instance using the given chain backend.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithBackend(
	_ config.Server,
	_ chain.Backend,
	t ...*testing.T,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
