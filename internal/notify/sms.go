package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const brevoSMSURL = "https://api.brevo.com/v3/transactionalSMS/sms"

var ErrSMSNotConfigured = errors.New("BREVO_API_KEY not configured")

// BrevoSMS sends transactional SMS through the Brevo HTTP API.
type BrevoSMS struct {
	APIKey   string
	Sender   string
	Endpoint string
	Client   *http.Client
}

func NewBrevoSMS(apiKey, sender string) *BrevoSMS {
	return &BrevoSMS{
		APIKey:   apiKey,
		Sender:   sender,
		Endpoint: brevoSMSURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoSMS) SendSMS(ctx context.Context, to, content string) error {
	if s.APIKey == "" {
		return ErrSMSNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"sender":    s.Sender,
		"recipient": to,
		"content":   content,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("brevo sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("brevo sms send failed (%d): %s", resp.StatusCode, body)
	}
	return nil
}
