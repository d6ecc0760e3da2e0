package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
)

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage("shop@example.com", "ann@example.com", "Verify your email", "Your code is 123456")
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Subject: Verify your email")
	assert.Contains(t, out, "ann@example.com")
	assert.Contains(t, out, "Your code is 123456")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	_, err := buildMessage("shop@example.com", "not an address", "s", "b")
	assert.Error(t, err)
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := LogMailer{Logger: logging.NewWithWriter(&buf, "info")}

	require.NoError(t, m.Send(context.Background(), "ann@example.com", "Reset", "secret link"))
	assert.Contains(t, buf.String(), "email_not_sent")
	assert.NotContains(t, buf.String(), "secret link")
}

func TestBrevoSMS_Send(t *testing.T) {
	var got map[string]string
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":1}`))
	}))
	defer srv.Close()

	s := NewBrevoSMS("key-1", "SHOP")
	s.Endpoint = srv.URL

	require.NoError(t, s.SendSMS(context.Background(), "+15550100", "code 654321"))
	assert.Equal(t, "key-1", apiKey)
	assert.Equal(t, map[string]string{"sender": "SHOP", "recipient": "+15550100", "content": "code 654321"}, got)
}

func TestBrevoSMS_Errors(t *testing.T) {
	assert.ErrorIs(t, NewBrevoSMS("", "SHOP").SendSMS(context.Background(), "+1", "x"), ErrSMSNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := NewBrevoSMS("bad", "SHOP")
	s.Endpoint = srv.URL
	err := s.SendSMS(context.Background(), "+1", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
