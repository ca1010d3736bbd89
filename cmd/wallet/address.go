package wallet

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
)

func newAddress() *cobra.Command {
	return &cobra.Command{
		Use:   "address",
		Short: "Prints the faucet wallet address",
		Long:  `Loads the configured signing key and prints the address funding requests are paid from.`,
		Run: func(_ *cobra.Command, _ []string) {
			runAddress()
		},
	}
}

func runAddress() {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	cfg, err := withKeystorePassword(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to unlock keystore")
	}

	s, err := api.NewSigner(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load signing key")
	}

	fmt.Println(s.Address().Hex())
}
