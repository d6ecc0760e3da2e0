package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

func TestMain(m *testing.M) {
	hash.Cost = bcrypt.MinCost
	os.Exit(m.Run())
}

type testEnv struct {
	e      *echo.Echo
	store  *repo.GormRepo
	issuer *tokens.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	store := &repo.GormRepo{DB: gdb}
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	issuer := tokens.NewIssuer([]byte("test-secret"), time.Hour)
	pub := events.Nop{}

	e := echo.New()
	Register(e, &Deps{
		Store: store,
		Auth:  authmw.NewAuthMiddleware(issuer, store),
		AuthHandler: &AuthHTTP{Svc: &service.AuthService{
			Users: store, Tokens: store, Issuer: issuer, Events: pub,
		}},
		CatalogHandler: &CatalogHTTP{
			Svc:        &service.CatalogService{Products: store, Events: pub},
			Categories: &service.CategoryService{Categories: store},
		},
		CartHandler: &CartHTTP{Svc: &service.CartService{Carts: store, Products: store, Events: pub}},
		AccountHandler: &AccountHTTP{
			Svc: &service.AccountService{Users: store, Products: store, Orders: store,
				Addresses: store, Returns: store, Events: pub},
			Addresses: &service.AddressService{Addresses: store},
		},
		OrderHandler: &OrderHTTP{
			Svc: &service.OrderService{Orders: store, Products: store, Carts: store,
				Addresses: store, Events: pub},
			Payments: &service.PaymentService{Orders: store, Secret: "pay-secret", Events: pub},
			Returns:  &service.ReturnService{Returns: store, Orders: store, Products: store, Events: pub},
		},
		ReviewHandler: &ReviewHTTP{Svc: &service.ReviewService{Reviews: store, Products: store, Events: pub}},
		AdminHandler:  &AdminHTTP{Svc: &service.AdminService{Users: store, Orders: store, Products: store, Events: pub}},
	})
	return &testEnv{e: e, store: store, issuer: issuer}
}

// login creates a user with the given role and returns a bearer token for it.
func (env *testEnv) login(t *testing.T, email, role string) (string, *models.User) {
	t.Helper()
	u := &models.User{Name: "Test", Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, env.store.CreateUser(context.Background(), u))
	tok, _, err := env.issuer.Issue(u.ID.String(), u.Role)
	require.NoError(t, err)
	return tok, u
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func (env *testEnv) product(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Stock: 10}
	require.NoError(t, env.store.CreateProduct(context.Background(), p))
	return p
}

func TestRouter_InfoAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Ecommerce API", body["message"])

	rec, _ = env.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = env.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/docs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, body["routes"])
}

func TestRouter_AuthRequired(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, body["message"])

	rec, _ = env.do(t, http.MethodGet, "/api/cart", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userTok, _ := env.login(t, "user@example.com", models.RoleUser)
	rec, _ = env.do(t, http.MethodPost, "/api/products", userTok, map[string]any{"name": "X", "price": 1})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminTok, _ := env.login(t, "admin@example.com", models.RoleAdmin)
	rec, body = env.do(t, http.MethodPost, "/api/products", adminTok, map[string]any{"name": "X", "price": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "X", body["product"].(map[string]any)["name"])
}

func TestRouter_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)

	rec, body := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"name": "Ann", "email": "ann@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	user := body["user"].(map[string]any)
	assert.NotContains(t, user, "passwordHash")

	rec, body = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{"email": "x@example.com"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["errors"], "name")

	rec, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "ann@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code)
	token := body["token"].(string)
	assert.NotEmpty(t, rec.Header().Get("Set-Cookie"))

	rec, body = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann@example.com", body["user"].(map[string]any)["email"])

	rec, _ = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CartTotalsUseServerPrice(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.login(t, "ann@example.com", models.RoleUser)
	p := env.product(t, "Tee", 10)

	rec, _ := env.do(t, http.MethodPost, "/api/cart/add", tok, map[string]any{"productId": p.ID, "quantity": 2, "price": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	rec, body := env.do(t, http.MethodPost, "/api/cart/add", tok, map[string]any{"productId": p.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, rec.Code)

	cart := body["cart"].(map[string]any)
	items := cart["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 5, items[0].(map[string]any)["quantity"])
	assert.EqualValues(t, 10, items[0].(map[string]any)["price"])
	assert.EqualValues(t, 50, cart["totalAmount"])

	rec, _ = env.do(t, http.MethodPut, "/api/cart/update", tok, map[string]any{"productId": p.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/cart/remove/not-an-id", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/cart/clear", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_OrderIgnoresClientTotal(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.login(t, "ann@example.com", models.RoleUser)
	other, _ := env.login(t, "bob@example.com", models.RoleUser)
	p := env.product(t, "Tee", 12.5)

	rec, body := env.do(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"items":         []map[string]any{{"productId": p.ID, "quantity": 2, "price": 0.5}},
		"paymentMethod": "COD",
		"totalAmount":   1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	order := body["order"].(map[string]any)
	assert.EqualValues(t, 25, order["totalAmount"])
	id := order["id"].(string)

	rec, _ = env.do(t, http.MethodGet, "/api/orders/"+id, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/orders/my-orders", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["orders"], 1)

	rec, body = env.do(t, http.MethodPost, "/api/orders", tok, map[string]any{
		"items":         []map[string]any{{"productId": "00000000-0000-0000-0000-000000000001", "quantity": 1}},
		"paymentMethod": "COD",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, body["message"])

	n, err := env.store.CountOrders(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestRouter_AddressOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.login(t, "ann@example.com", models.RoleUser)
	other, _ := env.login(t, "bob@example.com", models.RoleUser)

	rec, body := env.do(t, http.MethodPost, "/api/addresses", owner, map[string]any{
		"line1": "1 Main", "city": "Town", "country": "US", "pincode": "12345",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	addr := body["address"].(map[string]any)
	assert.Equal(t, "12345", addr["pincode"])

	rec, _ = env.do(t, http.MethodPut, "/api/addresses/"+addr["id"].(string), other, map[string]any{"city": "X"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodDelete, "/api/addresses/"+addr["id"].(string), owner, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ReviewAggregate(t *testing.T) {
	env := newTestEnv(t)
	tok, _ := env.login(t, "ann@example.com", models.RoleUser)
	p := env.product(t, "Tee", 10)

	rec, body := env.do(t, http.MethodPost, "/api/reviews", tok, map[string]any{"productId": p.ID, "rating": 4})
	require.Equal(t, http.StatusCreated, rec.Code)
	reviewID := body["review"].(map[string]any)["id"].(string)

	rec, body = env.do(t, http.MethodGet, "/api/products/"+p.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prod := body["product"].(map[string]any)
	assert.EqualValues(t, 4, prod["rating"])
	assert.EqualValues(t, 1, prod["reviewCount"])

	rec, _ = env.do(t, http.MethodDelete, "/api/reviews/"+reviewID, tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = env.do(t, http.MethodGet, "/api/products/"+p.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prod = body["product"].(map[string]any)
	assert.EqualValues(t, 0, prod["rating"])
	assert.EqualValues(t, 0, prod["reviewCount"])
}

func TestRouter_PaymentVerify(t *testing.T) {
	env := newTestEnv(t)
	tok, u := env.login(t, "ann@example.com", models.RoleUser)
	o := &models.Order{UserID: u.ID, PaymentMethod: models.PaymentUPI, PaymentStatus: models.PaymentPending,
		OrderStatus: models.OrderProcessing, TotalAmount: 5}
	require.NoError(t, env.store.CreateOrder(context.Background(), o))

	rec, _ := env.do(t, http.MethodPost, "/api/payments/verify", tok, map[string]any{
		"orderId": o.ID, "paymentId": "pay_1", "signature": "bad",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/api/payments/verify", tok, map[string]any{
		"orderId": o.ID, "paymentId": "pay_1", "signature": service.Sign("pay-secret", o.ID.String(), "pay_1"),
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/payments/"+o.ID.String(), tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.PaymentPaid, body["payment"].(map[string]any)["paymentStatus"])
}

func TestRouter_AdminStats(t *testing.T) {
	env := newTestEnv(t)
	adminTok, _ := env.login(t, "admin@example.com", models.RoleAdmin)
	userTok, u := env.login(t, "ann@example.com", models.RoleUser)

	rec, _ := env.do(t, http.MethodGet, "/api/admin/dashboard-stats", userTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := env.do(t, http.MethodGet, "/api/admin/dashboard-stats", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, body["stats"].(map[string]any)["usersCount"])

	rec, body = env.do(t, http.MethodPut, "/api/admin/users/"+u.ID.String()+"/promote", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleAdmin, body["user"].(map[string]any)["role"])

	rec, body = env.do(t, http.MethodGet, "/api/admin/users?page=1&size=1", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.Equal(t, true, meta["has_next"])
}

func TestFail_MapsErrors(t *testing.T) {
	l := slog.New(slog.NewJSONHandler(io.Discard, nil))
	cases := []struct {
		err  error
		code int
	}{
		{&service.ValidationError{Message: "bad", Fields: map[string]string{"a": "required"}}, http.StatusBadRequest},
		{&service.Error{Kind: service.ErrUnauthorized, Message: "no"}, http.StatusUnauthorized},
		{&service.Error{Kind: service.ErrForbidden, Message: "Forbidden"}, http.StatusForbidden},
		{&service.Error{Kind: service.ErrNotFound, Message: "X not found"}, http.StatusNotFound},
		{&service.Error{Kind: service.ErrConflict, Message: "dup"}, http.StatusConflict},
		{&service.Error{Kind: service.ErrUnavailable, Message: "off"}, http.StatusServiceUnavailable},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		var he *echo.HTTPError
		require.ErrorAs(t, fail(l, "test_error", tc.err), &he)
		assert.Equal(t, tc.code, he.Code, tc.err.Error())
	}

	var he *echo.HTTPError
	require.ErrorAs(t, fail(l, "test_error", errors.New("secret detail")), &he)
	assert.Equal(t, "Server error", he.Message)
}
