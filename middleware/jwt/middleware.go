package jwt

import (
	"net/http"
	"strings"

	"github.com/OliveroJ16/inventory-system-api/services/token"
	"github.com/OliveroJ16/inventory-system-api/services/users"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	UserIDKey = "_jwt_user_id"
	ClaimsKey = "_jwt_claims"
)

// RequireJWT rejects requests without a valid bearer access token and stores
// the authenticated user id and claims on the request context.
func RequireJWT(tokenService *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			claims, err := tokenService.ValidateToken(tokenString, token.PurposeAccess)
			if err != nil {
				switch err {
				case token.ErrExpiredToken:
					return echo.NewHTTPError(http.StatusUnauthorized, "Access token has expired")
				case token.ErrPurposeMismatch:
					return echo.NewHTTPError(http.StatusUnauthorized, "Not an access token")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
				}
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid access token")
			}

			c.Set(UserIDKey, userID)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

// RequireRole gates an endpoint to the given roles. It must run after
// RequireJWT; the role comes from the stored user, not the token.
func RequireRole(userService *users.Service, roles ...users.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := GetUserID(c)
			if userID == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			user, err := userService.FindByID(userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			for _, role := range roles {
				if user.Role == role {
					return next(c)
				}
			}

			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}

func GetUserID(c echo.Context) uuid.UUID {
	if userID, ok := c.Get(UserIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

func GetClaims(c echo.Context) *token.Claims {
	if claims, ok := c.Get(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}
