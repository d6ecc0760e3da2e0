package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/pricing"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type OrderService struct {
	Orders    repo.Orders
	Products  repo.Products
	Carts     repo.Carts
	Addresses repo.Addresses
	Events    events.Publisher
}

// Create builds an order from client lines. Prices and the total come from
// the product records; any client total is ignored.
func (s *OrderService) Create(ctx context.Context, p Principal, req transport.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, invalid("Order items required", "items", "required")
	}
	method, err := paymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(req.Items))
	for i, it := range req.Items {
		if lines[i], err = toLine(it, fmt.Sprintf("items[%d].", i)); err != nil {
			return nil, err
		}
	}

	addr, err := s.shippingAddress(ctx, p, req.ShippingAddress, req.AddressID)
	if err != nil {
		return nil, err
	}

	priced, err := pricing.Resolve(ctx, s.Products, lines)
	if err != nil {
		return nil, fromPricing(err)
	}

	order := newOrder(p.UserID, priced, addr, method)
	order.PaymentID = strings.TrimSpace(req.PaymentID)
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	s.emitCreated(ctx, order)
	return order, nil
}

// Checkout turns the caller's cart into an order and empties the cart.
func (s *OrderService) Checkout(ctx context.Context, p Principal, req transport.CheckoutRequest) (*models.Order, error) {
	method, err := paymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	cart, err := s.Carts.GetCart(ctx, p.UserID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, invalid("Cart is empty", "items", "required")
	}

	addr, err := s.shippingAddress(ctx, p, req.ShippingAddress, req.AddressID)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(cart.Items))
	for i, it := range cart.Items {
		lines[i] = pricing.Line{ProductID: it.ProductID, Quantity: it.Quantity, Size: it.Size, Color: it.Color}
	}
	priced, err := pricing.Resolve(ctx, s.Products, lines)
	if err != nil {
		return nil, fromPricing(err)
	}

	order := newOrder(p.UserID, priced, addr, method)
	if err := s.Orders.CreateOrder(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	cart.Items = []models.CartItem{}
	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		logging.FromContext(ctx).Warn("checkout_clear_cart_error", "order_id", order.ID, "error", err)
	}
	s.emitCreated(ctx, order)
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.Orders.ListOrdersByUser(ctx, userID)
}

func (s *OrderService) Get(ctx context.Context, p Principal, rawID string) (*models.Order, error) {
	id, err := parseID("id", rawID)
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

// Cancel is open to the owner while the order has not shipped.
func (s *OrderService) Cancel(ctx context.Context, p Principal, rawID string) (*models.Order, error) {
	o, err := s.Get(ctx, p, rawID)
	if err != nil {
		return nil, err
	}
	if !o.Cancellable() {
		return nil, conflict("Order can no longer be cancelled")
	}

	// Keep the vocabulary the order was stored with.
	if o.OrderStatus == models.OrderProcessing {
		o.OrderStatus = models.OrderCancelled
	} else {
		o.OrderStatus = strings.ToLower(models.OrderCancelled)
	}
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":    "order_cancelled",
		"orderID": o.ID,
		"userID":  o.UserID,
	})
	return o, nil
}

// UpdateStatus lets an admin set either status field to any accepted value.
func (s *OrderService) UpdateStatus(ctx context.Context, rawID string, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	orderStatus := strings.TrimSpace(req.OrderStatus)
	paymentStatus := strings.TrimSpace(req.PaymentStatus)
	if orderStatus == "" && paymentStatus == "" {
		return nil, invalid("orderStatus or paymentStatus required")
	}
	if orderStatus != "" && !slices.Contains(models.OrderStatuses, orderStatus) {
		return nil, invalid("Invalid orderStatus", "orderStatus", "must be one of "+strings.Join(models.OrderStatuses, ", "))
	}
	if paymentStatus != "" && !slices.Contains(models.PaymentStatuses, paymentStatus) {
		return nil, invalid("Invalid paymentStatus", "paymentStatus", "must be one of "+strings.Join(models.PaymentStatuses, ", "))
	}

	o, err := s.Orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Order")
	}
	if orderStatus != "" {
		o.OrderStatus = orderStatus
	}
	if paymentStatus != "" {
		o.PaymentStatus = paymentStatus
	}
	if err := s.Orders.SaveOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("save order: %w", err)
	}

	events.Emit(ctx, s.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":          "order_status_changed",
		"orderID":       o.ID,
		"orderStatus":   o.OrderStatus,
		"paymentStatus": o.PaymentStatus,
	})
	return o, nil
}

func (s *OrderService) shippingAddress(ctx context.Context, p Principal, given *models.ShippingAddress, rawAddressID string) (models.ShippingAddress, error) {
	if given != nil {
		return *given, nil
	}
	if strings.TrimSpace(rawAddressID) == "" || s.Addresses == nil {
		return models.ShippingAddress{}, nil
	}

	id, err := parseID("addressId", rawAddressID)
	if err != nil {
		return models.ShippingAddress{}, err
	}
	a, err := s.Addresses.GetAddress(ctx, id)
	if err != nil {
		return models.ShippingAddress{}, fromRepo(err, "Address")
	}
	if a.UserID != p.UserID {
		return models.ShippingAddress{}, forbidden()
	}
	return models.ShippingAddress{
		Name:         a.Name,
		Phone:        a.Phone,
		Line1:        a.Line1,
		Line2:        a.Line2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.PostalCode,
		Landmark:     a.Landmark,
		Instructions: a.Instructions,
	}, nil
}

func (s *OrderService) emitCreated(ctx context.Context, o *models.Order) {
	events.Emit(ctx, s.Events, events.TopicOrder, o.ID.String(), map[string]any{
		"type":        "order_created",
		"orderID":     o.ID,
		"userID":      o.UserID,
		"totalAmount": o.TotalAmount,
		"items":       len(o.Items),
	})
}

func newOrder(userID uuid.UUID, priced []pricing.Priced, addr models.ShippingAddress, method string) *models.Order {
	return &models.Order{
		UserID:          userID,
		Items:           pricing.OrderItems(priced),
		ShippingAddress: addr,
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPending,
		OrderStatus:     models.OrderProcessing,
		TotalAmount:     pricing.PricedTotal(priced),
	}
}

func paymentMethod(raw string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(raw))
	if m == "" {
		return "", invalid("paymentMethod required", "paymentMethod", "required")
	}
	if !slices.Contains(models.PaymentMethods, m) {
		return "", invalid("Invalid paymentMethod", "paymentMethod", "must be one of "+strings.Join(models.PaymentMethods, ", "))
	}
	return m, nil
}
