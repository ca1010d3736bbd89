package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/go-faucet/internal/api"
	"github/chapool/go-faucet/internal/api/handlers/common"
	"github/chapool/go-faucet/internal/api/handlers/faucet"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		faucet.PostFundRoute(s),
	}

	if s.Config.Metrics.Enabled {
		s.Router.Routes = append(s.Router.Routes, common.GetMetricsRoute(s))
	}
}
