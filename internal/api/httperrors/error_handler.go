package httperrors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/go-faucet/internal/util"
)

type HTTPErrorHandlerConfig struct {
	// HideInternalServerErrorDetails replaces the title of every 5xx with a generic one.
	HideInternalServerErrorDetails bool
}

var DefaultHTTPErrorHandlerConfig = HTTPErrorHandlerConfig{
	HideInternalServerErrorDetails: true,
}

func HTTPErrorHandler(err error, c echo.Context) {
	HTTPErrorHandlerWithConfig(DefaultHTTPErrorHandlerConfig)(err, c)
}

func HTTPErrorHandlerWithConfig(config HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var he *HTTPError
		var ee *echo.HTTPError

		switch {
		case errors.As(err, &he):
		case errors.As(err, &ee):
			he = NewFromEcho(ee)
		default:
			he = NewHTTPError(http.StatusInternalServerError, PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError)).WithInternal(err)
		}

		if he.Code >= http.StatusInternalServerError && config.HideInternalServerErrorDetails {
			cp := *he
			cp.Title = http.StatusText(he.Code)
			cp.Detail = ""
			he = &cp
		}

		log := util.LogFromEchoContext(c)
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", he.Code).Msg("Request failed")
		} else {
			log.Debug().Err(err).Int("status", he.Code).Msg("Request rejected")
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, he)
		}
		if err != nil {
			log.Warn().Err(err).Msg("Failed to send error response")
		}
	}
}
