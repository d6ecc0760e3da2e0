package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

func TestPayment_Flow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := seedUser(t, store, "owner@example.com")
	other := seedUser(t, store, "other@example.com")
	o := &models.Order{UserID: owner.UserID, PaymentMethod: models.PaymentRazorpay,
		PaymentStatus: models.PaymentPending, OrderStatus: models.OrderProcessing, TotalAmount: 42.5}
	require.NoError(t, store.CreateOrder(ctx, o))

	s := &PaymentService{Orders: store, Secret: "shh", Events: &recordPublisher{}}

	session, err := s.Create(ctx, owner, transport.CreatePaymentRequest{OrderID: o.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, 42.5, session.Amount)
	assert.Equal(t, "USD", session.Currency)
	assert.Equal(t, models.PaymentRazorpay, session.Method)
	assert.NotEmpty(t, session.PaymentID)

	stored, err := store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, session.PaymentID, stored.PaymentID)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)

	_, err = s.Create(ctx, other, transport.CreatePaymentRequest{OrderID: o.ID.String()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.Verify(ctx, owner, transport.VerifyPaymentRequest{
		OrderID: o.ID.String(), PaymentID: session.PaymentID, Signature: "deadbeef",
	})
	assert.ErrorIs(t, err, ErrValidation)
	sum, err := s.Summary(ctx, owner, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, sum.PaymentStatus)

	paid, err := s.Verify(ctx, owner, transport.VerifyPaymentRequest{
		OrderID:   o.ID.String(),
		PaymentID: session.PaymentID,
		Signature: Sign("shh", o.ID.String(), session.PaymentID),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)

	sum, err = s.Summary(ctx, owner, o.ID.String())
	require.NoError(t, err)
	assert.Equal(t, PaymentSummary{PaymentID: session.PaymentID, PaymentStatus: models.PaymentPaid, TotalAmount: 42.5}, *sum)

	// a paid order stays paid
	_, err = s.Verify(ctx, owner, transport.VerifyPaymentRequest{
		OrderID: o.ID.String(), PaymentID: session.PaymentID, Signature: "00",
	})
	assert.ErrorIs(t, err, ErrValidation)
	again, err := s.Verify(ctx, owner, transport.VerifyPaymentRequest{
		OrderID:   o.ID.String(),
		PaymentID: "pay_other",
		Signature: Sign("shh", o.ID.String(), "pay_other"),
	})
	require.NoError(t, err)
	assert.Equal(t, session.PaymentID, again.PaymentID)

	stored, err = store.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, stored.PaymentStatus)
	assert.Equal(t, session.PaymentID, stored.PaymentID)

	_, err = s.Create(ctx, owner, transport.CreatePaymentRequest{OrderID: o.ID.String()})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPayment_VerifyWithoutSecret(t *testing.T) {
	s := &PaymentService{Orders: newTestStore(t)}
	_, err := s.Verify(context.Background(), admin, transport.VerifyPaymentRequest{OrderID: "x", PaymentID: "y", Signature: "z"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSign(t *testing.T) {
	assert.Equal(t, Sign("key", "order", "pay"), Sign("key", "order", "pay"))
	assert.NotEqual(t, Sign("key", "order", "pay"), Sign("key", "order", "pay2"))
	assert.Len(t, Sign("key", "order", "pay"), 64)
}
