package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

func TestAccount_UpdateProfile(t *testing.T) {
	store := newTestStore(t)
	mailer := &recordMailer{}
	s := &AccountService{Users: store, Mailer: mailer, Events: &recordPublisher{},
		Now: func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }}
	ctx := context.Background()
	p := seedUser(t, store, "ann@example.com")
	seedUser(t, store, "taken@example.com")

	u, err := s.UpdateProfile(ctx, p, transport.UpdateProfileRequest{Name: "Annie", Phone: "+1555"})
	require.NoError(t, err)
	assert.Equal(t, "Annie", u.Name)
	assert.Equal(t, "+1555", u.Phone)
	assert.Empty(t, mailer.sent)

	_, err = s.UpdateProfile(ctx, p, transport.UpdateProfileRequest{Email: "TAKEN@example.com"})
	assert.ErrorIs(t, err, ErrConflict)

	u, err = s.UpdateProfile(ctx, p, transport.UpdateProfileRequest{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.False(t, u.EmailVerified)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "new@example.com", mailer.sent[0].To)

	require.NoError(t, s.DeleteProfile(ctx, p))
	_, err = s.Profile(ctx, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAccount_Wishlist(t *testing.T) {
	store := newTestStore(t)
	s := &AccountService{Users: store, Products: store}
	ctx := context.Background()
	p := seedUser(t, store, "ann@example.com")
	a := seedProduct(t, store, "A", 1)
	b := seedProduct(t, store, "B", 2)

	_, err := s.AddToWishlist(ctx, p, transport.WishlistRequest{ProductID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddToWishlist(ctx, p, transport.WishlistRequest{ProductID: b.ID.String()})
	require.NoError(t, err)
	_, err = s.AddToWishlist(ctx, p, transport.WishlistRequest{ProductID: a.ID.String()})
	require.NoError(t, err)
	list, err := s.AddToWishlist(ctx, p, transport.WishlistRequest{ProductID: b.ID.String()})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	list, err = s.RemoveFromWishlist(ctx, p, b.ID.String())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)
}

func TestAccount_Aggregate(t *testing.T) {
	store := newTestStore(t)
	s := &AccountService{Users: store, Products: store, Orders: store, Addresses: store, Returns: store}
	ctx := context.Background()
	p := seedUser(t, store, "ann@example.com")

	require.NoError(t, store.CreateOrder(ctx, &models.Order{UserID: p.UserID, PaymentMethod: models.PaymentCOD,
		PaymentStatus: models.PaymentPending, OrderStatus: models.OrderPlaced}))
	require.NoError(t, store.CreateAddress(ctx, &models.Address{UserID: p.UserID, Line1: "1", City: "C", Country: "US"}))
	require.NoError(t, store.CreateReturn(ctx, &models.ReturnRequest{UserID: p.UserID, Reason: "size", Status: models.ReturnRequested}))

	acc, err := s.Account(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, acc.User.ID)
	assert.Len(t, acc.Orders, 1)
	assert.Len(t, acc.Addresses, 1)
	assert.Len(t, acc.Returns, 1)
}

func TestAddress_DefaultAndOwnership(t *testing.T) {
	store := newTestStore(t)
	s := &AddressService{Addresses: store}
	ctx := context.Background()
	owner := seedUser(t, store, "owner@example.com")
	other := seedUser(t, store, "other@example.com")

	_, err := s.Create(ctx, owner, transport.AddressRequest{Line1: ptr("1 Main")})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "city")
	assert.Contains(t, ve.Fields, "country")

	first, err := s.Create(ctx, owner, transport.AddressRequest{
		Line1: ptr("1 Main"), City: ptr("Town"), Country: ptr("US"), Pincode: ptr("12345"), IsDefault: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "12345", first.PostalCode)

	second, err := s.Create(ctx, owner, transport.AddressRequest{
		Line1: ptr("2 Main"), City: ptr("Town"), Country: ptr("US"), IsDefault: ptr(true),
	})
	require.NoError(t, err)

	list, err := s.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, a := range list {
		assert.Equal(t, a.ID == second.ID, a.IsDefault, a.Line1)
	}

	_, err = s.Update(ctx, other, first.ID.String(), transport.AddressRequest{City: ptr("Elsewhere")})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, s.Delete(ctx, other, first.ID.String()), ErrForbidden)

	updated, err := s.Update(ctx, admin, first.ID.String(), transport.AddressRequest{City: ptr("Elsewhere")})
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", updated.City)

	_, err = s.Update(ctx, owner, first.ID.String(), transport.AddressRequest{City: ptr(" ")})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, s.Delete(ctx, owner, first.ID.String()))
	assert.ErrorIs(t, s.Delete(ctx, owner, first.ID.String()), ErrNotFound)
}

func TestReturns_Flow(t *testing.T) {
	store := newTestStore(t)
	s := &ReturnService{Returns: store, Orders: store, Products: store, Events: &recordPublisher{}}
	ctx := context.Background()
	owner := seedUser(t, store, "owner@example.com")
	other := seedUser(t, store, "other@example.com")
	prod := seedProduct(t, store, "A", 1)
	unrelated := seedProduct(t, store, "B", 1)
	o := &models.Order{UserID: owner.UserID, PaymentMethod: models.PaymentCOD,
		PaymentStatus: models.PaymentPaid, OrderStatus: "Delivered",
		Items: []models.OrderItem{{ProductID: prod.ID, Name: "A", Quantity: 1, Price: 1}}}
	require.NoError(t, store.CreateOrder(ctx, o))

	_, err := s.Create(ctx, owner, transport.CreateReturnRequest{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.Create(ctx, other, transport.CreateReturnRequest{Reason: "size", OrderID: o.ID.String()})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Create(ctx, owner, transport.CreateReturnRequest{Reason: "size", ProductID: uuid.NewString()})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Create(ctx, owner, transport.CreateReturnRequest{
		Reason: "size", OrderID: o.ID.String(), ProductID: unrelated.ID.String(),
	})
	assert.ErrorIs(t, err, ErrValidation)

	r, err := s.Create(ctx, owner, transport.CreateReturnRequest{
		Reason: " too small ", OrderID: o.ID.String(), ProductID: prod.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, "too small", r.Reason)
	assert.Equal(t, models.ReturnRequested, r.Status)

	onBehalf, err := s.Create(ctx, admin, transport.CreateReturnRequest{Reason: "damaged", OrderID: o.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, onBehalf.UserID)

	mine, err := s.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = s.UpdateStatus(ctx, r.ID.String(), transport.UpdateReturnStatusRequest{Status: "Lost"})
	assert.ErrorIs(t, err, ErrValidation)
	got, err := s.UpdateStatus(ctx, r.ID.String(), transport.UpdateReturnStatusRequest{Status: models.ReturnApproved})
	require.NoError(t, err)
	assert.Equal(t, models.ReturnApproved, got.Status)

	total, all, err := s.ListAll(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)
}

func TestAdmin_StatsAndPromote(t *testing.T) {
	store := newTestStore(t)
	s := &AdminService{Users: store, Orders: store, Products: store, Events: &recordPublisher{}}
	ctx := context.Background()
	p := seedUser(t, store, "ann@example.com")
	seedProduct(t, store, "A", 1)
	for _, o := range []*models.Order{
		{UserID: p.UserID, PaymentMethod: models.PaymentCOD, PaymentStatus: models.PaymentPaid, OrderStatus: "Delivered", TotalAmount: 10.1},
		{UserID: p.UserID, PaymentMethod: models.PaymentCOD, PaymentStatus: models.PaymentPaid, OrderStatus: "Delivered", TotalAmount: 20.2},
		{UserID: p.UserID, PaymentMethod: models.PaymentCOD, PaymentStatus: models.PaymentPending, OrderStatus: models.OrderProcessing, TotalAmount: 99},
	} {
		require.NoError(t, store.CreateOrder(ctx, o))
	}

	stats, err := s.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{UsersCount: 1, OrdersCount: 3, ProductsCount: 1, TotalSales: 30.3}, *stats)

	u, err := s.PromoteUser(ctx, p.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = s.PromoteUser(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	total, users, err := s.ListUsers(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, models.RoleAdmin, users[0].Role)
}
