package controllers

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogMiddleware writes one structured line per request.
func RequestLogMiddleware(log *zap.SugaredLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			log.Infow("request",
				"method", req.Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"latency", time.Since(start),
			)
			return nil
		}
	}
}

// NoStoreMiddleware marks responses as uncacheable. Session state changes
// between polls, so clients must not reuse an earlier answer.
func NoStoreMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}
