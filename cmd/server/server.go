package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/router"
	"github/chapool/go-faucet/internal/config"
	"github/chapool/go-faucet/internal/faucet"
	"github/chapool/go-faucet/internal/util/command"
)

const (
	preflightTimeout = 30 * time.Second
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the faucet HTTP server

Requires configuration through ENV and exits non-zero if any required key is missing or invalid.`,
		Run: func(_ *cobra.Command, _ []string) {
			runServer()
		},
	}
}

func runServer() {
	cfg := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(cfg.Logger)

	if err := cfg.Validate(); err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			for _, field := range verr.Fields() {
				log.Error().Str("key", field.Key).Msg(field.Reason)
			}
		}
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	s, err := api.InitNewServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	router.Init(s)

	ctx, cancel := context.WithTimeout(context.Background(), preflightTimeout)
	err = s.Faucet.Preflight(ctx)
	cancel()
	if err != nil {
		if errors.Is(err, faucet.ErrChainIDMismatch) {
			log.Fatal().Err(err).Msg("Refusing to start against the wrong chain")
		}
		// the RPC node may come up later, readiness reports it until then
		log.Error().Err(err).Msg("Preflight checks failed")
	}

	log.Info().
		Str("address", s.Faucet.Address().Hex()).
		Str("token", cfg.Faucet.TokenSymbol).
		Str("amount", cfg.Faucet.FundingAmount.String()).
		Str("listenAddress", cfg.Echo.ListenAddress).
		Msg("Starting faucet")

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	s.Metrics.RecordUp()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	// in-flight funding requests get the time they need to confirm
	ctx, cancel = context.WithTimeout(context.Background(), cfg.Faucet.SubmissionTimeout+cfg.Faucet.ConfirmationTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}
}
