package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/court-booking/internal/utils"
)

const secret = "mw-secret"

func protected(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, _ := UserID(c)
		return c.JSON(http.StatusOK, echo.Map{"id": id, "role": Role(c)})
	}, mw...)
	return e
}

func do(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	issued := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tok, err := utils.NewAccessToken(secret, 9, "OWNER", 30*time.Minute, issued)
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		e := protected(jwtAuth(secret, func() time.Time { return issued.Add(29 * time.Minute) }))
		rec := do(e, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":9,"role":"OWNER"}`, rec.Body.String())
	})

	t.Run("expired token", func(t *testing.T) {
		e := protected(jwtAuth(secret, func() time.Time { return issued.Add(31 * time.Minute) }))
		rec := do(e, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
	})

	t.Run("forged token gets the same body", func(t *testing.T) {
		e := protected(jwtAuth("other", func() time.Time { return issued }))
		rec := do(e, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rec := do(protected(JWTAuth(secret)), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec := do(protected(JWTAuth(secret)), "Basic Zm9vOmJhcg==")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	now := time.Now()
	owner, err := utils.NewAccessToken(secret, 1, "OWNER", time.Hour, now)
	require.NoError(t, err)
	player, err := utils.NewAccessToken(secret, 2, "PLAYER", time.Hour, now)
	require.NoError(t, err)

	e := protected(JWTAuth(secret), RequireRole("OWNER"))

	assert.Equal(t, http.StatusOK, do(e, "Bearer "+owner.Token).Code)

	rec := do(e, "Bearer "+player.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"forbidden"}`, rec.Body.String())
}
