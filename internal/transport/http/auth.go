package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AuthHTTP struct {
	Svc          *service.AuthService
	SecureCookie bool
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := bind(c, l, "register_error", &req); err != nil {
		return err
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	l.Info("register_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered. Check your email for the verification code",
		"user":    user,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := bind(c, l, "login_error", &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     authmw.CookieName,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	l.Info("login_success", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Login successful",
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	p, err := principal(c)
	if err != nil {
		return err
	}
	jti, _ := c.Get(authmw.CtxTokenID).(string)
	if err := h.Svc.Logout(ctx, p, jti, authmw.TokenExpiry(c)); err != nil {
		return fail(l, "logout_error", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     authmw.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookie,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Me(ctx, p)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Current user", "user": user})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := bind(c, l, "forgot_password_error", &req); err != nil {
		return err
	}
	if err := h.Svc.ForgotPassword(ctx, req); err != nil {
		return fail(l, "forgot_password_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "If that email is registered, a reset link has been sent",
	})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := bind(c, l, "reset_password_error", &req); err != nil {
		return err
	}
	if err := h.Svc.ResetPassword(ctx, req); err != nil {
		return fail(l, "reset_password_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password has been reset"})
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_email")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.VerifyCodeRequest
	if err := bind(c, l, "verify_email_error", &req); err != nil {
		return err
	}
	user, err := h.Svc.VerifyEmail(ctx, p, req)
	if err != nil {
		return fail(l, "verify_email_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email verified", "user": user})
}

func (h *AuthHTTP) SendPhoneCode(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.send_phone_code")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.SendPhoneCodeRequest
	if err := bind(c, l, "send_phone_code_error", &req); err != nil {
		return err
	}
	if err := h.Svc.SendPhoneCode(ctx, p, req); err != nil {
		return fail(l, "send_phone_code_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification code sent"})
}

func (h *AuthHTTP) VerifyPhone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_phone")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.VerifyCodeRequest
	if err := bind(c, l, "verify_phone_error", &req); err != nil {
		return err
	}
	user, err := h.Svc.VerifyPhone(ctx, p, req)
	if err != nil {
		return fail(l, "verify_phone_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Phone verified", "user": user})
}
