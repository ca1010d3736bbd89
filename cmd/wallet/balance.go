package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
)

type balanceOutput struct {
	Address       string `json:"address"`
	Token         string `json:"token"`
	TokenBalance  string `json:"tokenBalance"`
	NativeBalance string `json:"nativeBalance"`
	PendingNonce  uint64 `json:"pendingNonce"`
	BlockNumber   string `json:"blockNumber"`
	// FundingsLeft is how many more requests the token balance covers.
	FundingsLeft string `json:"fundingsLeft"`
}

func newBalance() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Prints the faucet wallet balances",
		Long:  `Reads the token and native balance plus the pending nonce of the faucet wallet from the RPC node.`,
		Run: func(_ *cobra.Command, _ []string) {
			runBalance()
		},
	}
}

func runBalance() {
	cfg, err := withKeystorePassword(config.DefaultServiceConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to unlock keystore")
	}

	err = command.WithServer(context.Background(), cfg, func(ctx context.Context, s *api.Server) error {
		balance, err := s.Faucet.Balance(ctx)
		if err != nil {
			return err
		}

		out := balanceOutput{
			Address:       balance.Address.Hex(),
			Token:         cfg.Faucet.TokenSymbol,
			TokenBalance:  balance.Token.String(),
			NativeBalance: balance.Native.String(),
			PendingNonce:  balance.PendingNonce,
			BlockNumber:   balance.BlockNumber.String(),
			FundingsLeft:  new(big.Int).Quo(balance.Token, cfg.Faucet.FundingAmount).String(),
		}

		c, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(c))

		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read wallet balance")
	}
}
