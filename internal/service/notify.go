package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/notify"
)

const (
	codeTTL       = 10 * time.Minute
	resetTTL      = time.Hour
	notifyTimeout = 10 * time.Second
)

// verificationCode returns a six digit numeric code.
func verificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", 100000+n.Int64()), nil
}

func randomToken(nbytes int) (string, error) {
	b := make([]byte, nbytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// sendMail delivers best-effort; failures are logged only.
func sendMail(ctx context.Context, m notify.Mailer, to, subject, body string) {
	if m == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := m.Send(ctx, to, subject, body); err != nil {
		logging.FromContext(ctx).Warn("email_send_error", "subject", subject, "error", err)
	}
}

func sendSMS(ctx context.Context, s notify.SMSSender, to, content string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()
	if err := s.SendSMS(ctx, to, content); err != nil {
		logging.FromContext(ctx).Warn("sms_send_error", "error", err)
	}
}
