package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "boom" {
		return false, errors.New("store down")
	}
	return f[jti], nil
}

func newRequest(t *testing.T, header, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error { return c.NoContent(http.StatusOK) }

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, isHTTP := err.(*echo.HTTPError)
	require.True(t, isHTTP, "expected HTTPError, got %v", err)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	iss := tokens.NewIssuer([]byte("secret"), time.Hour)
	userID := uuid.NewString()
	token, _, err := iss.Issue(userID, "user")
	require.NoError(t, err)

	mw := NewAuthMiddleware(iss, fakeRevocations{})

	t.Run("missing token", func(t *testing.T) {
		c, _ := newRequest(t, "", "")
		assert.Equal(t, http.StatusUnauthorized, httpCode(t, mw.RequireAuth(ok)(c)))
	})

	t.Run("garbage token", func(t *testing.T) {
		c, _ := newRequest(t, "Bearer nope", "")
		assert.Equal(t, http.StatusUnauthorized, httpCode(t, mw.RequireAuth(ok)(c)))
	})

	t.Run("bearer header", func(t *testing.T) {
		c, rec := newRequest(t, "Bearer "+token, "")
		require.NoError(t, mw.RequireAuth(ok)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, c.Get(CtxUserID))
		assert.Equal(t, "user", c.Get(CtxRole))
		assert.False(t, TokenExpiry(c).IsZero())
	})

	t.Run("cookie fallback", func(t *testing.T) {
		c, rec := newRequest(t, "", token)
		require.NoError(t, mw.RequireAuth(ok)(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireAuth_Revoked(t *testing.T) {
	iss := tokens.NewIssuer([]byte("secret"), time.Hour)
	token, _, err := iss.Issue(uuid.NewString(), "user")
	require.NoError(t, err)
	claims, err := iss.Parse(token)
	require.NoError(t, err)

	mw := NewAuthMiddleware(iss, fakeRevocations{claims.ID: true})
	c, _ := newRequest(t, "Bearer "+token, "")
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, mw.RequireAuth(ok)(c)))
}

func TestRequireAdmin(t *testing.T) {
	iss := tokens.NewIssuer([]byte("secret"), time.Hour)
	userToken, _, err := iss.Issue(uuid.NewString(), "user")
	require.NoError(t, err)
	adminToken, _, err := iss.Issue(uuid.NewString(), "admin")
	require.NoError(t, err)

	mw := NewAuthMiddleware(iss, nil)

	c, _ := newRequest(t, "Bearer "+userToken, "")
	assert.Equal(t, http.StatusForbidden, httpCode(t, mw.RequireAdmin(ok)(c)))

	c, rec := newRequest(t, "Bearer "+adminToken, "")
	require.NoError(t, mw.RequireAdmin(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_RevocationLookupFails(t *testing.T) {
	iss := tokens.NewIssuer([]byte("secret"), time.Hour)
	token, _, err := iss.Issue(uuid.NewString(), "user")
	require.NoError(t, err)

	mw := NewAuthMiddleware(parserWithID{iss, "boom"}, fakeRevocations{})
	c, _ := newRequest(t, "Bearer "+token, "")
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, mw.RequireAuth(ok)(c)))
}

type parserWithID struct {
	inner *tokens.Issuer
	jti   string
}

func (p parserWithID) Parse(token string) (*tokens.AccessClaims, error) {
	claims, err := p.inner.Parse(token)
	if err != nil {
		return nil, err
	}
	claims.ID = p.jti
	return claims, nil
}
