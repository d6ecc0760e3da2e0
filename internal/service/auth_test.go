package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type authFixture struct {
	svc    *AuthService
	store  *repo.GormRepo
	mailer *recordMailer
	sms    *recordSMS
	now    time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	store := newTestStore(t)
	f := &authFixture{
		store:  store,
		mailer: &recordMailer{},
		sms:    &recordSMS{},
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.svc = &AuthService{
		Users:  store,
		Tokens: store,
		Issuer: &tokens.Issuer{Secret: []byte("test-secret"), TTL: time.Hour, Now: clock},
		Mailer: f.mailer,
		SMS:    f.sms,
		Events: &recordPublisher{},
		AppURL: "https://shop.example.com/",
		Now:    clock,
	}
	return f
}

func (f *authFixture) register(t *testing.T, email string) {
	t.Helper()
	_, err := f.svc.Register(context.Background(), transport.RegisterRequest{
		Name: "Ann", Email: email, Password: "secret123",
	})
	require.NoError(t, err)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	u, err := f.svc.Register(ctx, transport.RegisterRequest{Name: " Ann ", Email: " Ann@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.False(t, u.EmailVerified)
	require.Len(t, f.mailer.sent, 1)
	assert.Contains(t, f.mailer.sent[0].Body, u.EmailVerificationCode)

	_, err = f.svc.Register(ctx, transport.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = f.svc.Register(ctx, transport.RegisterRequest{Email: "x@example.com"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "required", ve.Fields["name"])
	assert.Equal(t, "required", ve.Fields["password"])

	_, err = f.svc.Register(ctx, transport.RegisterRequest{Name: "Bob", Email: "bob@example.com", Password: strings.Repeat("p", 80)})
	assert.ErrorIs(t, err, ErrValidation)

	res, err := f.svc.Login(ctx, transport.LoginRequest{Email: "ANN@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.now.Add(time.Hour), res.ExpiresAt)

	claims, err := f.svc.Issuer.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)

	_, err = f.svc.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuth_LogoutRevokesToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@example.com")

	res, err := f.svc.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "secret123"})
	require.NoError(t, err)
	claims, err := f.svc.Issuer.Parse(res.Token)
	require.NoError(t, err)

	p := Principal{UserID: res.User.ID, Role: res.User.Role}
	require.NoError(t, f.svc.Logout(ctx, p, claims.ID, res.ExpiresAt))

	revoked, err := f.store.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuth_PasswordReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@example.com")
	f.mailer.sent = nil

	require.NoError(t, f.svc.ForgotPassword(ctx, transport.ForgotPasswordRequest{Email: "nobody@example.com"}))
	assert.Empty(t, f.mailer.sent)

	require.NoError(t, f.svc.ForgotPassword(ctx, transport.ForgotPasswordRequest{Email: "ann@example.com"}))
	require.Len(t, f.mailer.sent, 1)
	body := f.mailer.sent[0].Body
	require.Contains(t, body, "https://shop.example.com/reset-password?token=")
	token := body[strings.Index(body, "token=")+len("token="):]

	err := f.svc.ResetPassword(ctx, transport.ResetPasswordRequest{Token: "bogus", Password: "new"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.ResetPassword(ctx, transport.ResetPasswordRequest{Token: token, Password: "newpass"}))
	_, err = f.svc.Login(ctx, transport.LoginRequest{Email: "ann@example.com", Password: "newpass"})
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, transport.ResetPasswordRequest{Token: token, Password: "again"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_ResetTokenExpires(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@example.com")

	require.NoError(t, f.svc.ForgotPassword(ctx, transport.ForgotPasswordRequest{Email: "ann@example.com"}))
	u, err := f.store.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)
	err = f.svc.ResetPassword(ctx, transport.ResetPasswordRequest{Token: u.ResetPasswordToken, Password: "late"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_VerifyEmailAndPhone(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ann@example.com")
	u, err := f.store.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	p := Principal{UserID: u.ID, Role: u.Role}

	_, err = f.svc.VerifyEmail(ctx, p, transport.VerifyCodeRequest{Code: "000000"})
	assert.ErrorIs(t, err, ErrValidation)

	verified, err := f.svc.VerifyEmail(ctx, p, transport.VerifyCodeRequest{Code: u.EmailVerificationCode})
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)

	assert.ErrorIs(t, f.svc.SendPhoneCode(ctx, p, transport.SendPhoneCodeRequest{}), ErrValidation)
	require.NoError(t, f.svc.SendPhoneCode(ctx, p, transport.SendPhoneCodeRequest{Phone: "+15550001"}))
	require.Len(t, f.sms.to, 1)
	assert.Equal(t, "+15550001", f.sms.to[0])

	u, err = f.store.GetUser(ctx, p.UserID)
	require.NoError(t, err)
	code := u.SMSVerificationCode
	assert.Contains(t, f.sms.content[0], code)

	f.now = f.now.Add(11 * time.Minute)
	_, err = f.svc.VerifyPhone(ctx, p, transport.VerifyCodeRequest{Code: code})
	assert.ErrorIs(t, err, ErrValidation)

	f.now = f.now.Add(-10 * time.Minute)
	got, err := f.svc.VerifyPhone(ctx, p, transport.VerifyCodeRequest{Code: code})
	require.NoError(t, err)
	assert.True(t, got.PhoneVerified)
}
