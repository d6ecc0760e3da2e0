package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/notify"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AuthService struct {
	Users  repo.Users
	Tokens repo.Tokens
	Issuer *tokens.Issuer
	Mailer notify.Mailer
	SMS    notify.SMSSender
	Events events.Publisher
	AppURL string
	Now    func() time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if err := requireFields("name, email and password are required",
		"name", name, "email", email, "password", req.Password); err != nil {
		return nil, err
	}

	pwHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	code, err := verificationCode()
	if err != nil {
		return nil, err
	}
	exp := s.now().Add(codeTTL)

	user := &models.User{
		Name:                     name,
		Email:                    email,
		PasswordHash:             pwHash,
		Phone:                    strings.TrimSpace(req.Phone),
		EmailVerificationCode:    code,
		EmailVerificationExpires: &exp,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			l.Warn("register_error", "status", 409, "reason", "email already in use")
			return nil, conflict("Email already in use")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	sendMail(ctx, s.Mailer, user.Email, "Verify your email", "Your email verification code is "+code)
	events.Emit(ctx, s.Events, events.TopicUser, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if err := requireFields("email and password are required",
		"email", email, "password", req.Password); err != nil {
		return nil, err
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, unauthorized("Invalid credentials")
	}

	token, exp, err := s.Issuer.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// Logout denies the token id until the token would have expired on its own.
func (s *AuthService) Logout(ctx context.Context, p Principal, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return nil
	}
	if expiresAt.IsZero() {
		expiresAt = s.now().Add(s.Issuer.TTL)
	}
	return s.Tokens.RevokeToken(ctx, &models.RevokedToken{
		JTI:       tokenID,
		UserID:    p.UserID,
		ExpiresAt: expiresAt.UTC(),
	})
}

func (s *AuthService) Me(ctx context.Context, p Principal) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, p.UserID)
	return u, fromRepo(err, "User")
}

// ForgotPassword never reveals whether the address is registered.
func (s *AuthService) ForgotPassword(ctx context.Context, req transport.ForgotPasswordRequest) error {
	email := normalizeEmail(req.Email)
	if email == "" {
		return invalid("email is required", "email", "required")
	}

	user, err := s.Users.GetUserByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	token, err := randomToken(20)
	if err != nil {
		return err
	}
	exp := s.now().Add(resetTTL)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &exp
	if err := s.Users.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(s.AppURL, "/"), token)
	sendMail(ctx, s.Mailer, user.Email, "Reset your password",
		"Use this link within one hour to reset your password: "+link)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req transport.ResetPasswordRequest) error {
	token := strings.TrimSpace(req.Token)
	if err := requireFields("token and password are required",
		"token", token, "password", req.Password); err != nil {
		return err
	}

	user, err := s.Users.GetUserByResetToken(ctx, token)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !stillValid(user.ResetPasswordExpires, s.now())) {
		return invalid("Invalid or expired reset token")
	}
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	pwHash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	return s.Users.SaveUser(ctx, user)
}

func (s *AuthService) VerifyEmail(ctx context.Context, p Principal, req transport.VerifyCodeRequest) (*models.User, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, invalid("code is required", "code", "required")
	}

	user, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	if user.EmailVerified {
		return user, nil
	}
	if !codeMatches(user.EmailVerificationCode, code) || !stillValid(user.EmailVerificationExpires, s.now()) {
		return nil, invalid("Invalid or expired verification code")
	}

	user.EmailVerified = true
	user.EmailVerificationCode = ""
	user.EmailVerificationExpires = nil
	if err := s.Users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (s *AuthService) SendPhoneCode(ctx context.Context, p Principal, req transport.SendPhoneCodeRequest) error {
	user, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return fromRepo(err, "User")
	}

	phone := strings.TrimSpace(req.Phone)
	if phone == "" {
		phone = user.Phone
	}
	if phone == "" {
		return invalid("phone is required", "phone", "required")
	}

	code, err := verificationCode()
	if err != nil {
		return err
	}
	exp := s.now().Add(codeTTL)
	if phone != user.Phone {
		user.Phone = phone
		user.PhoneVerified = false
	}
	user.SMSVerificationCode = code
	user.SMSVerificationExpires = &exp
	if err := s.Users.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	sendSMS(ctx, s.SMS, phone, "Your verification code is "+code)
	return nil
}

func (s *AuthService) VerifyPhone(ctx context.Context, p Principal, req transport.VerifyCodeRequest) (*models.User, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, invalid("code is required", "code", "required")
	}

	user, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	if !codeMatches(user.SMSVerificationCode, code) || !stillValid(user.SMSVerificationExpires, s.now()) {
		return nil, invalid("Invalid or expired verification code")
	}

	user.PhoneVerified = true
	user.SMSVerificationCode = ""
	user.SMSVerificationExpires = nil
	if err := s.Users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func codeMatches(want, got string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func stillValid(exp *time.Time, now time.Time) bool {
	return exp != nil && exp.After(now)
}

func hashPassword(pw string) (string, error) {
	h, err := hash.HashPassword(pw)
	if errors.Is(err, hash.ErrTooLong) {
		return "", invalid(err.Error(), "password", "too long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}
