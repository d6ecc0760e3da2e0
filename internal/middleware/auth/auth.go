package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

const (
	CookieName = "accessToken"

	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenID  = "token_id"
	CtxTokenExp = "token_exp"
)

type TokenParser interface {
	Parse(token string) (*tokens.AccessClaims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthMiddleware struct {
	Tokens  TokenParser
	Revoked RevocationChecker
}

func NewAuthMiddleware(parser TokenParser, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{Tokens: parser, Revoked: revoked}
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
		}
		return nil
	})
}

func (m *AuthMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "auth")

		raw := bearerToken(c)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, no token")
		}

		claims, err := m.Tokens.Parse(raw)
		if err != nil || claims == nil || claims.Subject == "" {
			l.Warn("auth_error", "status", 401, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token failed")
		}

		if m.Revoked != nil && claims.ID != "" {
			revoked, err := m.Revoked.IsRevoked(ctx, claims.ID)
			if err != nil {
				l.Error("auth_error", "status", 500, "reason", "cannot check revocation", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized, token revoked")
			}
		}

		if validator != nil {
			if err := validator(claims); err != nil {
				return err
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

// bearerToken prefers the Authorization header and falls back to the cookie.
func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set(CtxUserID, claims.Subject)
	c.Set(CtxRole, claims.Role)
	c.Set(CtxTokenID, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(CtxTokenExp, claims.ExpiresAt.Time)
	}
}

// TokenExpiry returns the expiry of the token that authenticated the request.
func TokenExpiry(c echo.Context) time.Time {
	if v, ok := c.Get(CtxTokenExp).(time.Time); ok {
		return v
	}
	return time.Time{}
}
