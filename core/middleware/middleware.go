package middleware

import (
	"strings"

	"agreetime-api/core/cache"
	"agreetime-api/core/constants"
	"agreetime-api/core/controller"
	"agreetime-api/core/errors"
	"agreetime-api/core/logger"
	"agreetime-api/core/utils"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// Middleware bundles the route-level middlewares modules attach to their
// groups.
type Middleware struct {
	cache cache.ICache
}

func NewMiddleware(c cache.ICache) *Middleware {
	return &Middleware{cache: c}
}

// Setup registers the global middleware stack.
func Setup(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(50))))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Warn("http request",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"error", v.Error,
				)
				return nil
			}
			logger.Info("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))
}

// AuthMiddleware validates the bearer token and stores its claims in context.
// Tokens are issued by the external identity provider; this service only
// verifies and extracts the opaque user id.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing Authorization header")
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			if m.cache != nil {
				blacklisted, err := m.cache.IsTokenBlacklisted(c.Request().Context(), token)
				if err != nil {
					logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", err)
					return controller.NewErrorResponse(500, errors.ErrInternalServer, "failed to check token")
				}
				if blacklisted {
					return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is blacklisted")
				}
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
