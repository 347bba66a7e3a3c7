package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTSecret = []byte("test-secret")

func signToken(t *testing.T, claims Claims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		WorkspaceID: "ws-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func runAuth(t *testing.T, authorization string) (*httptest.ResponseRecorder, Identity, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/tasks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got Identity
	handler := requireAuth(testJWTSecret)(func(c *echo.Context) error {
		got = identityFrom(c)
		return c.NoContent(http.StatusOK)
	})
	return rec, got, handler(c)
}

func TestRequireAuth(t *testing.T) {
	t.Run("valid token sets identity", func(t *testing.T) {
		token := signToken(t, validClaims(), testJWTSecret)
		_, ident, err := runAuth(t, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", ident.UserID)
		assert.Equal(t, "ws-1", ident.WorkspaceID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		_, _, err := runAuth(t, "")
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		token := signToken(t, validClaims(), []byte("other-secret"))
		_, _, err := runAuth(t, "Bearer "+token)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token := signToken(t, claims, testJWTSecret)
		_, _, err := runAuth(t, "Bearer "+token)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("missing workspace claim rejected", func(t *testing.T) {
		claims := validClaims()
		claims.WorkspaceID = ""
		token := signToken(t, claims, testJWTSecret)
		_, _, err := runAuth(t, "Bearer "+token)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("unsigned algorithm rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims())
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, _, authErr := runAuth(t, "Bearer "+signed)
		he, ok := authErr.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
