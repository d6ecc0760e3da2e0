package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type ReviewHTTP struct {
	Svc *service.ReviewService
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.CreateReviewRequest
	if err := bind(c, l, "create_review_error", &req); err != nil {
		return err
	}
	r, err := h.Svc.Create(ctx, p, req)
	if err != nil {
		return fail(l, "create_review_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Review added", "review": r})
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	items, err := h.Svc.ListByProduct(ctx, c.Param("productId"))
	if err != nil {
		return fail(l, "list_reviews_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Reviews fetched", "reviews": orEmpty(items)})
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, p, c.Param("id")); err != nil {
		return fail(l, "delete_review_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Review deleted"})
}
