package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type ReturnService struct {
	Returns  repo.Returns
	Orders   repo.Orders
	Products repo.Products
	Events   events.Publisher
}

func (s *ReturnService) Create(ctx context.Context, p Principal, req transport.CreateReturnRequest) (*models.ReturnRequest, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, invalid("reason is required", "reason", "required")
	}
	orderID, err := parseOptionalID("orderId", req.OrderID)
	if err != nil {
		return nil, err
	}
	productID, err := parseOptionalID("productId", req.ProductID)
	if err != nil {
		return nil, err
	}

	// a return filed against an order belongs to the order's owner
	owner := p.UserID
	var order *models.Order
	if orderID != nil {
		order, err = s.Orders.GetOrder(ctx, *orderID)
		if err != nil {
			return nil, fromRepo(err, "Order")
		}
		if err := p.authorize(order.UserID); err != nil {
			return nil, err
		}
		owner = order.UserID
	}
	if productID != nil {
		if _, err := s.Products.GetProduct(ctx, *productID); err != nil {
			return nil, fromRepo(err, "Product")
		}
		if order != nil && !orderHasProduct(order, *productID) {
			return nil, invalid("Product is not part of this order", "productId", "not in order")
		}
	}

	r := &models.ReturnRequest{
		UserID:    owner,
		OrderID:   orderID,
		ProductID: productID,
		Reason:    reason,
		Comment:   strings.TrimSpace(req.Comment),
		Status:    models.ReturnRequested,
	}
	if err := s.Returns.CreateReturn(ctx, r); err != nil {
		return nil, fmt.Errorf("create return: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicOrder, r.ID.String(), map[string]any{
		"type":     "return_requested",
		"returnID": r.ID,
		"userID":   owner,
	})
	return r, nil
}

func orderHasProduct(o *models.Order, productID uuid.UUID) bool {
	return slices.ContainsFunc(o.Items, func(it models.OrderItem) bool { return it.ProductID == productID })
}

func (s *ReturnService) ListMine(ctx context.Context, p Principal) ([]models.ReturnRequest, error) {
	return s.Returns.ListReturnsByUser(ctx, p.UserID)
}

func (s *ReturnService) ListAll(ctx context.Context, offset, limit int) (int64, []models.ReturnRequest, error) {
	return s.Returns.ListReturns(ctx, offset, limit)
}

func (s *ReturnService) UpdateStatus(ctx context.Context, rawID string, req transport.UpdateReturnStatusRequest) (*models.ReturnRequest, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	status := strings.TrimSpace(req.Status)
	if !slices.Contains(models.ReturnStatuses, status) {
		return nil, invalid("Invalid status", "status", "must be one of "+strings.Join(models.ReturnStatuses, ", "))
	}

	r, err := s.Returns.GetReturn(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Return request")
	}
	r.Status = status
	if err := s.Returns.SaveReturn(ctx, r); err != nil {
		return nil, fmt.Errorf("save return: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicOrder, r.ID.String(), map[string]any{
		"type":     "return_status_changed",
		"returnID": r.ID,
		"status":   status,
	})
	return r, nil
}
