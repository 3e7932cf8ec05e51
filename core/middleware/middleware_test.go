package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agreetime-api/core/config"
	"agreetime-api/core/constants"
	"agreetime-api/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authContext(t *testing.T, header string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_ValidTokenSetsClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)

	userID := uuid.New()
	token, err := utils.GenerateToken(userID, time.Hour)
	require.NoError(t, err)

	c, _ := authContext(t, "Bearer "+token)

	called := false
	handler := NewMiddleware(nil).AuthMiddleware()(func(c echo.Context) error {
		called = true
		claims, ok := c.Get(constants.ContextTokenData).(*utils.TokenClaims)
		require.True(t, ok)
		assert.Equal(t, userID, claims.UserID)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.True(t, called)
}

func TestAuthMiddleware_ExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := config.Load()
	require.NoError(t, err)

	token, err := utils.GenerateToken(uuid.New(), -time.Hour)
	require.NoError(t, err)

	c, _ := authContext(t, "Bearer "+token)
	handler := NewMiddleware(nil).AuthMiddleware()(func(c echo.Context) error {
		t.Fatal("handler must not run for an expired token")
		return nil
	})

	err = handler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_MissingHeaderRejected(t *testing.T) {
	c, _ := authContext(t, "")
	handler := NewMiddleware(nil).AuthMiddleware()(func(c echo.Context) error {
		t.Fatal("handler must not run without a token")
		return nil
	})

	err := handler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddleware_NonBearerHeaderRejected(t *testing.T) {
	c, _ := authContext(t, "Basic dXNlcjpwYXNz")
	handler := NewMiddleware(nil).AuthMiddleware()(func(c echo.Context) error {
		t.Fatal("handler must not run without a bearer token")
		return nil
	})

	err := handler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
