package api

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echo "github.com/labstack/echo/v5"
)

// identityKey is the echo context key for the authenticated caller.
const identityKey = "drover.identity"

// Identity is the authenticated caller extracted from the bearer token.
// WorkspaceID scopes every read and write.
type Identity struct {
	UserID      string
	WorkspaceID string
}

// Claims is the expected JWT payload: `sub` is the user id and `workspace_id`
// the tenant scope.
type Claims struct {
	WorkspaceID string `json:"workspace_id"`
	jwt.RegisteredClaims
}

// requireAuth validates the bearer JWT (HMAC) and stores the caller identity
// on the request context.
func requireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			token, err := jwt.ParseWithClaims(raw, &Claims{}, func(*jwt.Token) (any, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Subject == "" || claims.WorkspaceID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token missing sub or workspace_id")
			}

			c.Set(identityKey, Identity{
				UserID:      claims.Subject,
				WorkspaceID: claims.WorkspaceID,
			})
			return next(c)
		}
	}
}

// identityFrom returns the authenticated identity stored by requireAuth.
func identityFrom(c *echo.Context) Identity {
	ident, _ := c.Get(identityKey).(Identity)
	return ident
}
