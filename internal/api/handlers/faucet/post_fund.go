package faucet

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/httperrors"
	"github/chapool/go-faucet/internal/faucet"
	"github/chapool/go-faucet/internal/util"
)

// Bodies longer than maxBodyPeek are never empty or null, even with whitespace padding.
const maxBodyPeek = 16

func PostFundRoute(s *api.Server) *echo.Route {
	return s.Router.Faucet.POST("/:address", postFundHandler(s))
}

func postFundHandler(s *api.Server) echo.HandlerFunc {
	action := "funding-" + strings.ToLower(s.Config.Faucet.TokenSymbol)

	return func(c echo.Context) error {
		address := c.Param("address")
		log := util.LogFromEchoContext(c).With().
			Str("action", action).
			Str("address", address).
			Logger()
		ctx := log.WithContext(c.Request().Context())

		log.Info().Msg("Funding request received")

		if err := requireEmptyBody(c.Request().Body); err != nil {
			log.Debug().Err(err).Msg("Rejecting funding request with body")
			return httperrors.ErrBadRequestNonEmptyBody
		}

		// a transfer that was broadcast must be followed up even if the client goes away
		outcome, err := s.Faucet.Fund(context.WithoutCancel(ctx), address)
		if err != nil {
			event := log.Error().Err(err)

			var fe *faucet.FundingError
			if errors.As(err, &fe) && fe.HasTx() {
				event = event.Str("tx_hash", fe.TxHash.Hex()).Uint64("nonce", fe.Nonce)
			}

			switch {
			case errors.Is(err, faucet.ErrInvalidAddress):
				event.Msg("Funding request for invalid address")
			case errors.Is(err, faucet.ErrConfirmationTimeout):
				event.Msg("Funding transfer not confirmed in time, funds may or may not have moved")
			case errors.Is(err, faucet.ErrConfirmationFailed):
				event.Msg("Funding transfer reverted")
			default:
				event.Msg("Funding transfer not submitted")
			}

			return httperrors.ErrInternalServerFundingFailed
		}

		log.Info().
			Str("tx_hash", outcome.TxHash.Hex()).
			Uint64("nonce", outcome.Nonce).
			Str("status", string(outcome.Status)).
			Msg("Funding request succeeded")

		return c.NoContent(http.StatusOK)
	}
}

var errNonEmptyBody = errors.New("request body must be empty or null")

// requireEmptyBody accepts an absent body, whitespace, or a literal JSON null.
func requireEmptyBody(body io.Reader) error {
	if body == nil {
		return nil
	}

	raw, err := io.ReadAll(io.LimitReader(body, maxBodyPeek+1))
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}
	if len(raw) > maxBodyPeek {
		return errNonEmptyBody
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	return errNonEmptyBody
}
