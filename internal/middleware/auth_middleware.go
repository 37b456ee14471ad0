package middleware

import (
	"agriVest/domain"
	"agriVest/pkg/logger"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	contextKeyUser   = "user"
	contextKeyUserID = "user_id"
	contextKeyToken  = "token"
)

// TokenAuthenticator resolves a bearer key to its user.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, key string) (domain.User, error)
}

// AuthMiddleware accepts "Authorization: Bearer <key>" and the DRF style
// "Authorization: Token <key>".
func AuthMiddleware(authenticator TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication credentials were not provided.")
			}

			tokenParts := strings.Fields(authHeader)
			if len(tokenParts) != 2 || (tokenParts[0] != "Bearer" && tokenParts[0] != "Token") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
			}

			tokenString := tokenParts[1]

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			user, err := authenticator.Authenticate(ctx, tokenString)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					logger.Warn("Rejected token", err)
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token.")
				}
				logger.Error("Failed to authenticate token", err)
				return err
			}

			SetCurrentUser(c, user)
			c.Set(contextKeyToken, tokenString)

			return next(c)
		}
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			if !user.IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}

			return next(c)
		}
	}
}

// SetCurrentUser attaches the authenticated user to the request context.
func SetCurrentUser(c echo.Context, user domain.User) {
	c.Set(contextKeyUser, user)
	c.Set(contextKeyUserID, user.ID)
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c echo.Context) (domain.User, bool) {
	user, ok := c.Get(contextKeyUser).(domain.User)
	return user, ok
}
