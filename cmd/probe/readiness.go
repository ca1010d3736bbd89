package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
)

func newReadiness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `Checks that the server components initialize and the RPC node answers.`,
		Run: func(_ *cobra.Command, _ []string) {
			os.Exit(runReadiness(verbose))
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runReadiness(verbose bool) int {
	err := command.WithServer(context.Background(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
		return api.ProbeReadiness(ctx, s)
	})
	if err != nil {
		log.Error().Err(err).Msg("Readiness probe failed")
		return 1
	}

	if verbose {
		fmt.Println("Ready.")
	}

	return 0
}
