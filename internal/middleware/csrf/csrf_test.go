package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Use(Middleware(DefaultConfig()))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	e.GET("/api/cart", ok)
	e.POST("/api/cart/add", ok)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: "jwt"})
	return req
}

func TestMiddleware_SkipsWithoutSessionCookie(t *testing.T) {
	rec := serve(t, httptest.NewRequest(http.MethodPost, "/api/cart/add", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestMiddleware_SkipsBearerRequests(t *testing.T) {
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/cart/add", nil))
	req.Header.Set(echo.HeaderAuthorization, "Bearer jwt")
	rec := serve(t, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddleware_IssuesTokenOnSafeRequest(t *testing.T) {
	rec := serve(t, withSession(httptest.NewRequest(http.MethodGet, "/api/cart", nil)))
	require.Equal(t, http.StatusNoContent, rec.Code)

	token := rec.Header().Get("X-CSRF-Token")
	require.NotEmpty(t, token)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "XSRF-TOKEN="+token)
}

func TestMiddleware_UnsafeRequests(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		header string
		want   int
	}{
		{"valid", "http://example.com", "tok", http.StatusNoContent},
		{"missing header", "http://example.com", "", http.StatusForbidden},
		{"wrong token", "http://example.com", "other", http.StatusForbidden},
		{"cross origin", "http://evil.test", "tok", http.StatusForbidden},
		{"no origin", "", "tok", http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := withSession(httptest.NewRequest(http.MethodPost, "http://example.com/api/cart/add", nil))
			req.AddCookie(&http.Cookie{Name: "XSRF-TOKEN", Value: "tok"})
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.header != "" {
				req.Header.Set("X-CSRF-Token", tc.header)
			}
			rec := serve(t, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
