package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var epoch = time.Unix(0, 0).UTC().Format(time.RFC1123)

var noCacheHeaders = map[string]string{
	"Expires":         epoch,
	"Cache-Control":   "no-cache, no-store, no-transform, must-revalidate, private, max-age=0",
	"Pragma":          "no-cache",
	"X-Accel-Expires": "0",
}

type NoCacheConfig struct {
	Skipper middleware.Skipper
}

var DefaultNoCacheConfig = NoCacheConfig{
	Skipper: middleware.DefaultSkipper,
}

// NoCache sets headers preventing clients and proxies from caching the response.
func NoCache() echo.MiddlewareFunc {
	return NoCacheWithConfig(DefaultNoCacheConfig)
}

func NoCacheWithConfig(config NoCacheConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultNoCacheConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			for k, v := range noCacheHeaders {
				c.Response().Header().Set(k, v)
			}

			return next(c)
		}
	}
}
