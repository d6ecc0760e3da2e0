package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	p, err := principal(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.GetCart(ctx, p.UserID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart fetched", "cart": transport.ToCartResponse(cart)})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CartLineRequest
	if err := bind(c, l, "add_to_cart_error", &req); err != nil {
		return err
	}
	cart, err := h.Svc.AddItem(ctx, p.UserID, req)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "user_id", p.UserID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Item added to cart", "cart": transport.ToCartResponse(cart)})
}

func (h *CartHTTP) UpdateCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.UpdateCartRequest
	if err := bind(c, l, "update_cart_error", &req); err != nil {
		return err
	}
	cart, err := h.Svc.UpdateCart(ctx, p.UserID, req)
	if err != nil {
		return fail(l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart updated", "cart": transport.ToCartResponse(cart)})
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	p, err := principal(c)
	if err != nil {
		return err
	}
	cart, err := h.Svc.RemoveItem(ctx, p.UserID, c.Param("productId"))
	if err != nil {
		return fail(l, "remove_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Item removed from cart", "cart": transport.ToCartResponse(cart)})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Clear(ctx, p.UserID); err != nil {
		return fail(l, "clear_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Cart cleared"})
}
