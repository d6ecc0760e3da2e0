package service

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type published struct {
	Topic string
	Key   string
	Event map[string]any
}

type recordPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, _ := event.(map[string]any)
	r.events = append(r.events, published{Topic: topic, Key: key, Event: m})
	return nil
}

func (r *recordPublisher) Close() error { return nil }

func (r *recordPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		t, _ := e.Event["type"].(string)
		out = append(out, t)
	}
	return out
}

type sentMail struct {
	To, Subject, Body string
}

type recordMailer struct {
	sent []sentMail
}

func (m *recordMailer) Send(_ context.Context, to, subject, body string) error {
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

type recordSMS struct {
	to, content []string
}

func (s *recordSMS) SendSMS(_ context.Context, to, content string) error {
	s.to = append(s.to, to)
	s.content = append(s.content, content)
	return nil
}

func newTestStore(t *testing.T) *repo.GormRepo {
	t.Helper()
	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	r := &repo.GormRepo{DB: gdb}
	t.Cleanup(func() { _ = r.Close(context.Background()) })
	return r
}

func seedProduct(t *testing.T, s repo.Products, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: 10, Category: "Shirts"}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, s repo.Users, email string) Principal {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return Principal{UserID: u.ID, Role: u.Role}
}

func ptr[T any](v T) *T { return &v }

var admin = Principal{UserID: uuid.New(), Role: models.RoleAdmin}
