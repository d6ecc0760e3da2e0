package httpserver

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	authmw "github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Store Pinger
	Auth  *authmw.AuthMiddleware

	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	AccountHandler *AccountHTTP
	OrderHandler   *OrderHTTP
	ReviewHandler  *ReviewHTTP
	AdminHandler   *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"message": "Ecommerce API"})
	})
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	e.GET("/docs", docs)

	user := d.Auth.RequireAuth
	admin := d.Auth.RequireAdmin

	auth := e.Group("/api/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)
	auth.POST("/logout", d.AuthHandler.Logout, user)
	auth.GET("/me", d.AuthHandler.Me, user)
	auth.POST("/verify-email", d.AuthHandler.VerifyEmail, user)
	auth.POST("/phone/send-code", d.AuthHandler.SendPhoneCode, user)
	auth.POST("/phone/verify", d.AuthHandler.VerifyPhone, user)

	products := e.Group("/api/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.POST("", d.CatalogHandler.CreateProduct, admin)
	products.PUT("/:id", d.CatalogHandler.UpdateProduct, admin)
	products.DELETE("/:id", d.CatalogHandler.DeleteProduct, admin)

	categories := e.Group("/api/categories")
	categories.GET("", d.CatalogHandler.ListCategories)
	categories.POST("", d.CatalogHandler.CreateCategory, admin)
	categories.PUT("/:id", d.CatalogHandler.UpdateCategory, admin)
	categories.DELETE("/:id", d.CatalogHandler.DeleteCategory, admin)

	cart := e.Group("/api/cart", user)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("/add", d.CartHandler.AddToCart)
	cart.PUT("/update", d.CartHandler.UpdateCart)
	cart.DELETE("/remove/:productId", d.CartHandler.RemoveFromCart)
	cart.DELETE("/clear", d.CartHandler.ClearCart)

	users := e.Group("/api/users", user)
	users.GET("/profile", d.AccountHandler.GetProfile)
	users.PUT("/profile", d.AccountHandler.UpdateProfile)
	users.DELETE("/profile", d.AccountHandler.DeleteProfile)

	e.GET("/api/account", d.AccountHandler.GetAccount, user)

	wishlist := e.Group("/api/wishlist", user)
	wishlist.GET("", d.AccountHandler.GetWishlist)
	wishlist.POST("", d.AccountHandler.AddToWishlist)
	wishlist.DELETE("/:productId", d.AccountHandler.RemoveFromWishlist)

	addresses := e.Group("/api/addresses", user)
	addresses.POST("", d.AccountHandler.CreateAddress)
	addresses.GET("", d.AccountHandler.ListAddresses)
	addresses.PUT("/:id", d.AccountHandler.UpdateAddress)
	addresses.DELETE("/:id", d.AccountHandler.DeleteAddress)

	reviews := e.Group("/api/reviews")
	reviews.GET("/:productId", d.ReviewHandler.ListReviews)
	reviews.POST("", d.ReviewHandler.CreateReview, user)
	reviews.DELETE("/:id", d.ReviewHandler.DeleteReview, user)

	orders := e.Group("/api/orders")
	orders.POST("", d.OrderHandler.CreateOrder, user)
	orders.POST("/checkout", d.OrderHandler.Checkout, user)
	orders.GET("/my-orders", d.OrderHandler.MyOrders, user)
	orders.GET("/:id", d.OrderHandler.GetOrder, user)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder, user)
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus, admin)

	returns := e.Group("/api/returns")
	returns.POST("", d.OrderHandler.CreateReturn, user)
	returns.GET("/my", d.OrderHandler.MyReturns, user)
	returns.GET("", d.OrderHandler.ListReturns, admin)
	returns.PUT("/:id/status", d.OrderHandler.UpdateReturnStatus, admin)

	payments := e.Group("/api/payments", user)
	payments.POST("/create", d.OrderHandler.CreatePayment)
	payments.POST("/verify", d.OrderHandler.VerifyPayment)
	payments.GET("/:orderId", d.OrderHandler.PaymentSummary)

	adm := e.Group("/api/admin", admin)
	adm.GET("/users", d.AdminHandler.ListUsers)
	adm.GET("/orders", d.AdminHandler.ListOrders)
	adm.GET("/dashboard-stats", d.AdminHandler.DashboardStats)
	adm.PUT("/users/:id/promote", d.AdminHandler.PromoteUser)
}

func (d *Deps) ready(c echo.Context) error {
	if d.Store == nil {
		return c.NoContent(http.StatusOK)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := d.Store.Ping(ctx); err != nil {
		logging.FromContext(ctx).Warn("ready_error", "status", http.StatusServiceUnavailable, "error", err)
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}

type routeDoc struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// docs lists every registered route.
func docs(c echo.Context) error {
	routes := c.Echo().Routes()
	out := make([]routeDoc, 0, len(routes))
	for _, r := range routes {
		if r.Method == echo.RouteNotFound {
			continue
		}
		out = append(out, routeDoc{Method: r.Method, Path: r.Path})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "Ecommerce API routes", "routes": out})
}
