package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smart-schedule/core/cache"
	"smart-schedule/core/constants"
	"smart-schedule/core/controller"
	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
	cache     cache.Cache
	base      controller.BaseController
}

func NewMiddleware(jwtSecret string, c cache.Cache) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
		cache:     c,
		base:      controller.NewBaseController(),
	}
}

// AuthMiddleware requires a valid bearer token and stores its claims under
// constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, appErr := utils.GetTokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if appErr != nil {
				return m.base.ErrorResponse(c, appErr)
			}
			claims, appErr := utils.ValidateAndParseToken(token, m.jwtSecret)
			if appErr != nil {
				return m.base.ErrorResponse(c, appErr)
			}
			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// RateLimit allows limit requests per window for each client IP under prefix.
// When the counter store fails the request is let through.
func (m *Middleware) RateLimit(prefix string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m.cache == nil || limit <= 0 {
				return next(c)
			}
			key := fmt.Sprintf("%s%s", prefix, c.RealIP())
			count, err := m.cache.Incr(c.Request().Context(), key, window)
			if err != nil {
				logger.Warn("Middleware:RateLimit:Incr", "key", key, "error", err)
				return next(c)
			}
			if count > int64(limit) {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				return m.base.ErrorResponse(c, errors.NewAppError(errors.ErrTooManyRequests, "Too many requests", nil))
			}
			return next(c)
		}
	}
}

// RequestTimeout bounds the request context.
func RequestTimeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// RequestLogger logs one line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			status := c.Response().Status
			fields := []any{
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"latency_ms", time.Since(start).Milliseconds(),
				"ip", c.RealIP(),
			}
			if status >= http.StatusInternalServerError {
				logger.Error("HTTP:Request", fields...)
			} else {
				logger.Info("HTTP:Request", fields...)
			}
			return nil
		}
	}
}
