package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type OrderHTTP struct {
	Svc      *service.OrderService
	Payments *service.PaymentService
	Returns  *service.ReturnService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CreateOrderRequest
	if err := bind(c, l, "create_order_error", &req); err != nil {
		return err
	}
	o, err := h.Svc.Create(ctx, p, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", o.ID, "total", o.TotalAmount)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order placed", "order": o})
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CheckoutRequest
	if err := bind(c, l, "checkout_error", &req); err != nil {
		return err
	}
	o, err := h.Svc.Checkout(ctx, p, req)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", o.ID, "total", o.TotalAmount)
	return c.JSON(http.StatusCreated, echo.Map{"message": "Order placed", "order": o})
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	p, err := principal(c)
	if err != nil {
		return err
	}
	orders, err := h.Svc.ListMine(ctx, p.UserID)
	if err != nil {
		return fail(l, "my_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Orders fetched", "orders": orEmpty(orders)})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	p, err := principal(c)
	if err != nil {
		return err
	}
	o, err := h.Svc.Get(ctx, p, c.Param("id"))
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order fetched", "order": o})
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel")

	p, err := principal(c)
	if err != nil {
		return err
	}
	o, err := h.Svc.Cancel(ctx, p, c.Param("id"))
	if err != nil {
		return fail(l, "cancel_order_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order cancelled", "order": o})
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateOrderStatusRequest
	if err := bind(c, l, "update_order_status_error", &req); err != nil {
		return err
	}
	o, err := h.Svc.UpdateStatus(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_order_status_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Order status updated", "order": o})
}

func (h *OrderHTTP) CreatePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CreatePaymentRequest
	if err := bind(c, l, "create_payment_error", &req); err != nil {
		return err
	}
	session, err := h.Payments.Create(ctx, p, req)
	if err != nil {
		return fail(l, "create_payment_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment session created", "payment": session})
}

func (h *OrderHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.VerifyPaymentRequest
	if err := bind(c, l, "verify_payment_error", &req); err != nil {
		return err
	}
	o, err := h.Payments.Verify(ctx, p, req)
	if err != nil {
		return fail(l, "verify_payment_error", err)
	}

	l.Info("verify_payment_success", "order_id", o.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment verified", "order": o})
}

func (h *OrderHTTP) PaymentSummary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.summary")

	p, err := principal(c)
	if err != nil {
		return err
	}
	sum, err := h.Payments.Summary(ctx, p, c.Param("orderId"))
	if err != nil {
		return fail(l, "payment_summary_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Payment fetched", "payment": sum})
}

func (h *OrderHTTP) CreateReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "return.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CreateReturnRequest
	if err := bind(c, l, "create_return_error", &req); err != nil {
		return err
	}
	r, err := h.Returns.Create(ctx, p, req)
	if err != nil {
		return fail(l, "create_return_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Return requested", "return": transport.ToReturnResponse(r)})
}

func (h *OrderHTTP) MyReturns(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "return.mine")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Returns.ListMine(ctx, p)
	if err != nil {
		return fail(l, "my_returns_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Returns fetched", "returns": transport.ToReturnResponses(items)})
}

func (h *OrderHTTP) ListReturns(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "return.list")

	page, offset, limit := pageParams(c)
	total, items, err := h.Returns.ListAll(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_returns_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Returns fetched",
		"returns": transport.ToReturnResponses(items),
		"meta":    util.NewMeta(page, offset, limit, total),
	})
}

func (h *OrderHTTP) UpdateReturnStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "return.update_status")

	var req transport.UpdateReturnStatusRequest
	if err := bind(c, l, "update_return_status_error", &req); err != nil {
		return err
	}
	r, err := h.Returns.UpdateStatus(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_return_status_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Return updated", "return": transport.ToReturnResponse(r)})
}
