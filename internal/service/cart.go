package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/pricing"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type CartService struct {
	Carts    repo.Carts
	Products repo.Products
	Events   events.Publisher
}

// GetCart returns the caller's cart, creating an empty one on first use.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	err = s.Carts.SaveCart(ctx, cart)
	switch {
	case err == nil:
		return cart, nil
	case errors.Is(err, repo.ErrDuplicate):
		// another request created it first
		cart, err = s.Carts.GetCart(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load cart: %w", err)
		}
		return cart, nil
	default:
		return nil, fmt.Errorf("create cart: %w", err)
	}
}

// AddItem prices the line from the product record and merges it into the cart.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req transport.CartLineRequest) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.add")

	line, err := toLine(req, "")
	if err != nil {
		return nil, err
	}
	priced, err := pricing.Resolve(ctx, s.Products, []pricing.Line{line})
	if err != nil {
		return nil, fromPricing(err)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.reprice(ctx, cart); err != nil {
		return nil, err
	}
	cart.Items = pricing.Merge(cart.Items, priced[0])

	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	// Not atomic with the cart write; a failure leaves the counter behind.
	if err := s.Products.IncrementCounter(ctx, line.ProductID, models.CounterAddToCart, line.Quantity); err != nil {
		l.Warn("add_to_cart_counter_error", "product_id", line.ProductID, "error", err)
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": line.ProductID,
		"quantity":  line.Quantity,
	})
	return cart, nil
}

// UpdateCart either replaces every line or sets the quantity of one line.
func (s *CartService) UpdateCart(ctx context.Context, userID uuid.UUID, req transport.UpdateCartRequest) (*models.Cart, error) {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Cart")
	}

	switch {
	case req.Items != nil:
		lines := make([]pricing.Line, len(req.Items))
		for i, it := range req.Items {
			if lines[i], err = toLine(it, fmt.Sprintf("items[%d].", i)); err != nil {
				return nil, err
			}
		}
		priced, err := pricing.Resolve(ctx, s.Products, lines)
		if err != nil {
			return nil, fromPricing(err)
		}
		cart.Items = pricing.FromPriced(priced)

	case strings.TrimSpace(req.ProductID) != "":
		productID, err := parseID("productId", req.ProductID)
		if err != nil {
			return nil, err
		}
		if req.Quantity == nil {
			return nil, invalid("quantity is required", "quantity", "required")
		}
		if *req.Quantity <= 0 {
			return nil, invalid("Quantity must be a positive integer", "quantity", "must be > 0")
		}

		idx := -1
		for i, it := range cart.Items {
			if pricing.SameVariant(it.ProductID, it.Size, it.Color, productID, req.Size, req.Color) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, notFound("Item in cart")
		}
		cart.Items[idx].Quantity = *req.Quantity
		if err := s.reprice(ctx, cart); err != nil {
			return nil, err
		}

	default:
		return nil, invalid("productId/quantity or items array required")
	}

	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":   "cart_updated",
		"userID": userID,
	})
	return cart, nil
}

// RemoveItem drops every line of the product regardless of variant.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, rawProductID string) (*models.Cart, error) {
	productID, err := parseID("productId", rawProductID)
	if err != nil {
		return nil, err
	}
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return nil, fromRepo(err, "Cart")
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept
	if err := s.reprice(ctx, cart); err != nil {
		return nil, err
	}

	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})
	return cart, nil
}

func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.Carts.GetCart(ctx, userID)
	if err != nil {
		return fromRepo(err, "Cart")
	}
	cart.Items = []models.CartItem{}
	if err := s.Carts.SaveCart(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	events.Emit(ctx, s.Events, events.TopicCart, userID.String(), map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return nil
}

// reprice refreshes every line from current product prices.
func (s *CartService) reprice(ctx context.Context, cart *models.Cart) error {
	if len(cart.Items) == 0 {
		return nil
	}
	products, err := s.Products.GetProductsByIDs(ctx, pricing.CartIDs(cart.Items))
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	cart.Items = pricing.Reprice(cart.Items, products)
	return nil
}

// toLine converts a client line. An omitted quantity means one.
func toLine(req transport.CartLineRequest, prefix string) (pricing.Line, error) {
	id, err := parseID(prefix+"productId", req.ProductID)
	if err != nil {
		return pricing.Line{}, err
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	return pricing.Line{
		ProductID: id,
		Quantity:  qty,
		Size:      pricing.NormalizeVariant(req.Size),
		Color:     pricing.NormalizeVariant(req.Color),
	}, nil
}
