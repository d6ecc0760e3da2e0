package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
	"github.com/Skotchmaster/ecommerce_api/internal/util"
)

type CatalogHTTP struct {
	Svc        *service.CatalogService
	Categories *service.CategoryService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page, offset, limit := pageParams(c)
	q := transport.ProductQuery{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Page:     page,
		Size:     limit,
	}
	total, items, err := h.Svc.ListProducts(ctx, q, offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Products fetched",
		"products": transport.ToProductCards(items),
		"meta":     util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, offset, limit := pageParams(c)
	total, items, err := h.Svc.SearchProducts(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Search results",
		"products": transport.ToProductCards(items),
		"meta":     util.NewMeta(page, offset, limit, total),
	})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	p, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product fetched",
		"product": transport.ToProductResponse(p),
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := bind(c, l, "product_create_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Product created",
		"product": transport.ToProductResponse(p),
	})
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	var req transport.ProductRequest
	if err := bind(c, l, "product_update_error", &req); err != nil {
		return err
	}
	p, err := h.Svc.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "product_update_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Product updated",
		"product": transport.ToProductResponse(p),
	})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	if err := h.Svc.DeleteProduct(ctx, c.Param("id")); err != nil {
		return fail(l, "product_delete_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted"})
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	items, err := h.Categories.List(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Categories fetched", "categories": orEmpty(items)})
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bind(c, l, "category_create_error", &req); err != nil {
		return err
	}
	cat, err := h.Categories.Create(ctx, req)
	if err != nil {
		return fail(l, "category_create_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Category created", "category": cat})
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	var req transport.CategoryRequest
	if err := bind(c, l, "category_update_error", &req); err != nil {
		return err
	}
	cat, err := h.Categories.Update(ctx, c.Param("id"), req)
	if err != nil {
		return fail(l, "category_update_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category updated", "category": cat})
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	if err := h.Categories.Delete(ctx, c.Param("id")); err != nil {
		return fail(l, "category_delete_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted"})
}
