package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/util"
)

const statusNotReady = 521

// GetReadyRoute is the readiness probe: every component is initialized and the RPC node answers.
func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := api.ProbeReadiness(c.Request().Context(), s); err != nil {
			util.LogFromEchoContext(c).Warn().Err(err).Msg("Readiness probe failed")
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
