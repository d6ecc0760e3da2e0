package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.users")

	page, offset, limit := pageParams(c)
	total, users, err := h.Svc.ListUsers(ctx, offset, limit)
	if err != nil {
		return fail(l, "admin_users_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Users fetched",
		"users":   orEmpty(users),
		"meta":    util.NewMeta(page, offset, limit, total),
	})
}

func (h *AdminHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.orders")

	page, offset, limit := pageParams(c)
	total, orders, err := h.Svc.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(l, "admin_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Orders fetched",
		"orders":  orEmpty(orders),
		"meta":    util.NewMeta(page, offset, limit, total),
	})
}

func (h *AdminHTTP) DashboardStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.dashboard_stats")

	stats, err := h.Svc.DashboardStats(ctx)
	if err != nil {
		return fail(l, "dashboard_stats_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Dashboard stats", "stats": stats})
}

func (h *AdminHTTP) PromoteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.promote")

	user, err := h.Svc.PromoteUser(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "promote_user_error", err)
	}

	l.Info("promote_user_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, echo.Map{"message": "User promoted to admin", "user": user})
}
