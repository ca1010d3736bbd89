package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/go-faucet/internal/util"
)

type LoggerConfig struct {
	Skipper           middleware.Skipper
	Level             zerolog.Level
	LogRequestHeader  bool
	LogResponseHeader bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: middleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig stores a request scoped zerolog logger (request id, method, path) in the
// request context and logs every completed request at config.Level. Retrieve the logger
// in handlers with util.LogFromEchoContext.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			logger := log.With().
				Str("id", id).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			ctx := context.WithValue(req.Context(), util.CTXKeyRequestID, id)
			c.SetRequest(req.WithContext(logger.WithContext(ctx)))

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			event := logger.WithLevel(config.Level).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if config.LogRequestHeader {
				event = event.Dict("req_header", headerDict(req.Header))
			}
			if config.LogResponseHeader {
				event = event.Dict("res_header", headerDict(res.Header()))
			}

			event.Msg("http_request")

			return nil
		}
	}
}

func headerDict(h http.Header) *zerolog.Event {
	dict := zerolog.Dict()
	for k, v := range h {
		dict = dict.Strs(k, v)
	}

	return dict
}
