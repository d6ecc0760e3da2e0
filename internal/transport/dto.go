package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type VerifyCodeRequest struct {
	Code string `json:"code"`
}

type SendPhoneCodeRequest struct {
	Phone string `json:"phone"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

// ProductRequest serves both create and partial update; nil fields are left alone.
type ProductRequest struct {
	Name                  *string           `json:"name"`
	Description           *string           `json:"description"`
	Category              *string           `json:"category"`
	CategoryID            *uuid.UUID        `json:"categoryId"`
	Collection            *string           `json:"collection"`
	Price                 *float64          `json:"price"`
	OriginalPrice         *float64          `json:"originalPrice"`
	MRP                   *float64          `json:"mrp"`
	Stock                 *int              `json:"stock"`
	Images                []string          `json:"images"`
	Variants              []models.Variant  `json:"variants"`
	Sizes                 []string          `json:"sizes"`
	Colors                []string          `json:"colors"`
	IsNew                 *bool             `json:"isNew"`
	IsBestSeller          *bool             `json:"isBestSeller"`
	IsLimited             *bool             `json:"isLimited"`
	DropDate              *time.Time        `json:"dropDate"`
	ReleaseDate           *time.Time        `json:"releaseDate"`
	TrendingScore         *float64          `json:"trendingScore"`
	ProductSpecifications map[string]string `json:"productSpecifications"`
}

type ProductQuery struct {
	Query    string
	Category string
	Page     int
	Size     int
}

// CartLineRequest is one line as the client describes it. Price is accepted
// for compatibility and never read.
type CartLineRequest struct {
	ProductID string   `json:"productId"`
	Quantity  *int     `json:"quantity"`
	Size      string   `json:"size"`
	Color     string   `json:"color"`
	Price     *float64 `json:"price,omitempty"`
}

type UpdateCartRequest struct {
	ProductID string            `json:"productId"`
	Quantity  *int              `json:"quantity"`
	Size      string            `json:"size"`
	Color     string            `json:"color"`
	Items     []CartLineRequest `json:"items"`
}

type CreateOrderRequest struct {
	Items           []CartLineRequest       `json:"items"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	AddressID       string                  `json:"addressId"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentID       string                  `json:"paymentId"`
	TotalAmount     *float64                `json:"totalAmount,omitempty"`
}

type CheckoutRequest struct {
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	AddressID       string                  `json:"addressId"`
	PaymentMethod   string                  `json:"paymentMethod"`
}

type UpdateOrderStatusRequest struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

type CreatePaymentRequest struct {
	OrderID       string `json:"orderId"`
	PaymentMethod string `json:"paymentMethod"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type CreateReviewRequest struct {
	ProductID string `json:"productId"`
	Rating    *int   `json:"rating"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

type WishlistRequest struct {
	ProductID string `json:"productId"`
}

type AddressRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Line1        *string `json:"line1"`
	Line2        *string `json:"line2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	PostalCode   *string `json:"postalCode"`
	Pincode      *string `json:"pincode"`
	Country      *string `json:"country"`
	Landmark     *string `json:"landmark"`
	Instructions *string `json:"instructions"`
	IsDefault    *bool   `json:"isDefault"`
}

type CreateReturnRequest struct {
	OrderID   string `json:"orderId"`
	ProductID string `json:"productId"`
	Reason    string `json:"reason"`
	Comment   string `json:"comment"`
}

type UpdateReturnStatusRequest struct {
	Status string `json:"status"`
}

type CategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	IsActive *bool   `json:"isActive"`
}
