package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AccountHTTP struct {
	Svc       *service.AccountService
	Addresses *service.AddressService
}

func (h *AccountHTTP) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.profile")

	p, err := principal(c)
	if err != nil {
		return err
	}
	user, err := h.Svc.Profile(ctx, p)
	if err != nil {
		return fail(l, "get_profile_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile fetched", "user": user})
}

func (h *AccountHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update_profile")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.UpdateProfileRequest
	if err := bind(c, l, "update_profile_error", &req); err != nil {
		return err
	}
	user, err := h.Svc.UpdateProfile(ctx, p, req)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated", "user": user})
}

func (h *AccountHTTP) DeleteProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete_profile")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProfile(ctx, p); err != nil {
		return fail(l, "delete_profile_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account deleted"})
}

func (h *AccountHTTP) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.get")

	p, err := principal(c)
	if err != nil {
		return err
	}
	acc, err := h.Svc.Account(ctx, p)
	if err != nil {
		return fail(l, "get_account_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":        "Account fetched",
		"profile":        acc.User,
		"orders":         transport.ToAccountOrders(acc.Orders),
		"addresses":      transport.ToAddressResponses(acc.Addresses),
		"paymentMethods": orEmpty(acc.User.PaymentMethods),
		"rewards":        acc.User.Rewards,
		"returns":        transport.ToReturnResponses(acc.Returns),
	})
}

func (h *AccountHTTP) GetWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.get")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.Wishlist(ctx, p)
	if err != nil {
		return fail(l, "get_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Wishlist fetched", "wishlist": transport.ToProductCards(items)})
}

func (h *AccountHTTP) AddToWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.add")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.WishlistRequest
	if err := bind(c, l, "add_to_wishlist_error", &req); err != nil {
		return err
	}
	items, err := h.Svc.AddToWishlist(ctx, p, req)
	if err != nil {
		return fail(l, "add_to_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Added to wishlist", "wishlist": transport.ToProductCards(items)})
}

func (h *AccountHTTP) RemoveFromWishlist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "wishlist.remove")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Svc.RemoveFromWishlist(ctx, p, c.Param("productId"))
	if err != nil {
		return fail(l, "remove_from_wishlist_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Removed from wishlist", "wishlist": transport.ToProductCards(items)})
}

func (h *AccountHTTP) CreateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.create")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.AddressRequest
	if err := bind(c, l, "create_address_error", &req); err != nil {
		return err
	}
	a, err := h.Addresses.Create(ctx, p, req)
	if err != nil {
		return fail(l, "create_address_error", err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "Address added", "address": transport.ToAddressResponse(a)})
}

func (h *AccountHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	p, err := principal(c)
	if err != nil {
		return err
	}
	items, err := h.Addresses.List(ctx, p)
	if err != nil {
		return fail(l, "list_addresses_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Addresses fetched", "addresses": transport.ToAddressResponses(items)})
}

func (h *AccountHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	p, err := principal(c)
	if err != nil {
		return err
	}
	var req transport.AddressRequest
	if err := bind(c, l, "update_address_error", &req); err != nil {
		return err
	}
	a, err := h.Addresses.Update(ctx, p, c.Param("id"), req)
	if err != nil {
		return fail(l, "update_address_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Address updated", "address": transport.ToAddressResponse(a)})
}

func (h *AccountHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	p, err := principal(c)
	if err != nil {
		return err
	}
	if err := h.Addresses.Delete(ctx, p, c.Param("id")); err != nil {
		return fail(l, "delete_address_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Address deleted"})
}
