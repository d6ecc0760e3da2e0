package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

const paymentCurrency = "USD"

// PaymentService runs a mock gateway: sessions are random ids and
// verification is an HMAC over the order and payment ids.
type PaymentService struct {
	Orders repo.Orders
	Secret string
	Events events.Publisher
}

type PaymentSession struct {
	OrderID   string  `json:"orderId"`
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"paymentMethod"`
}

type PaymentSummary struct {
	PaymentID     string  `json:"paymentId"`
	PaymentStatus string  `json:"paymentStatus"`
	TotalAmount   float64 `json:"totalAmount"`
}

// Sign returns the hex HMAC-SHA256 of "orderId:paymentId".
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + ":" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) Create(ctx context.Context, p Principal, req transport.CreatePaymentRequest) (*PaymentSession, error) {
	o, err := s.order(ctx, p, req.OrderID)
	if err != nil {
		return nil, err
	}

	if o.PaymentStatus == models.PaymentPaid {
		return nil, conflict("Order is already paid")
	}

	token, err := randomToken(12)
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		method = o.PaymentMethod
	}

	o.PaymentID = "pay_" + token
	o.PaymentStatus = models.PaymentPending
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	return &PaymentSession{
		OrderID:   o.ID.String(),
		PaymentID: o.PaymentID,
		Amount:    o.TotalAmount,
		Currency:  paymentCurrency,
		Method:    method,
	}, nil
}

// Verify marks the order paid when the signature matches and failed otherwise.
// A paid order is final: a match is a no-op and a mismatch changes nothing.
func (s *PaymentService) Verify(ctx context.Context, p Principal, req transport.VerifyPaymentRequest) (*models.Order, error) {
	if s.Secret == "" {
		return nil, unavailable("Payment verification is not configured")
	}
	paymentID := strings.TrimSpace(req.PaymentID)
	signature := strings.TrimSpace(req.Signature)
	if err := requireFields("orderId, paymentId and signature are required",
		"orderId", req.OrderID, "paymentId", paymentID, "signature", signature); err != nil {
		return nil, err
	}

	o, err := s.order(ctx, p, req.OrderID)
	if err != nil {
		return nil, err
	}

	want := Sign(s.Secret, o.ID.String(), paymentID)
	ok := hmac.Equal([]byte(want), []byte(strings.ToLower(signature)))
	if o.PaymentStatus == models.PaymentPaid {
		if !ok {
			return nil, invalid("Invalid payment signature")
		}
		return o, nil
	}
	if ok {
		o.PaymentID = paymentID
		o.PaymentStatus = models.PaymentPaid
	} else {
		o.PaymentStatus = models.PaymentFailed
	}
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	events.Emit(ctx, s.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":          "payment_verified",
		"orderID":       o.ID,
		"paymentStatus": o.PaymentStatus,
	})
	if !ok {
		return nil, invalid("Invalid payment signature")
	}
	return o, nil
}

func (s *PaymentService) Summary(ctx context.Context, p Principal, rawOrderID string) (*PaymentSummary, error) {
	o, err := s.order(ctx, p, rawOrderID)
	if err != nil {
		return nil, err
	}
	return &PaymentSummary{
		PaymentID:     o.PaymentID,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
	}, nil
}

func (s *PaymentService) order(ctx context.Context, p Principal, rawID string) (*models.Order, error) {
	id, err := parseID("orderId", rawID)
	if err != nil {
		return nil, err
	}
	o, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}
	if err := p.authorize(o.UserID); err != nil {
		return nil, err
	}
	return o, nil
}
