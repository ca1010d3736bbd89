package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/util/command"
)

func newLiveness() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long:  `Runs the readiness probe and checks the faucet wallet holds enough tokens and gas for another transfer.`,
		Run: func(_ *cobra.Command, _ []string) {
			os.Exit(runLiveness(verbose))
		},
	}

	cmd.Flags().BoolVarP(&verbose, verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runLiveness(verbose bool) int {
	err := command.WithServer(context.Background(), config.DefaultServiceConfigFromEnv(), func(ctx context.Context, s *api.Server) error {
		var result *multierror.Error
		for _, err := range api.ProbeLiveness(ctx, s) {
			result = multierror.Append(result, err)
		}

		return result.ErrorOrNil()
	})
	if err != nil {
		log.Error().Err(err).Msg("Liveness probe failed")
		return 1
	}

	if verbose {
		fmt.Println("Alive.")
	}

	return 0
}
