package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCOD      = "COD"
	PaymentRazorpay = "RAZORPAY"
	PaymentStripe   = "STRIPE"
	PaymentUPI      = "UPI"
	PaymentWallet   = "WALLET"
)

var PaymentMethods = []string{PaymentCOD, PaymentRazorpay, PaymentStripe, PaymentUPI, PaymentWallet}

const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

var PaymentStatuses = []string{PaymentPending, PaymentPaid, PaymentFailed}

// Two status vocabularies coexist; both are stored as given and
// NormalizeOrderStatus folds them for account views.
const (
	OrderProcessing = "Processing"
	OrderCancelled  = "Cancelled"

	OrderPlaced    = "placed"
	OrderConfirmed = "confirmed"
)

var OrderStatuses = []string{
	"Processing", "Shipped", "Delivered", "Cancelled", "Returned",
	"placed", "confirmed", "shipped", "delivered", "cancelled", "returned",
}

var legacyOrderStatus = map[string]string{
	"placed":    "Processing",
	"confirmed": "Processing",
	"shipped":   "Shipped",
	"delivered": "Delivered",
	"cancelled": "Cancelled",
	"returned":  "Returned",
}

func NormalizeOrderStatus(status string) string {
	if status == "" {
		return OrderProcessing
	}
	if v, ok := legacyOrderStatus[strings.ToLower(status)]; ok {
		return v
	}
	return status
}

// Cancellable reports whether the order has not left the warehouse yet.
func (o *Order) Cancellable() bool {
	switch o.OrderStatus {
	case OrderProcessing, OrderPlaced, OrderConfirmed:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID uuid.UUID `json:"productId"       bson:"productId"`
	Name      string    `json:"name"            bson:"name"`
	Quantity  int       `json:"quantity"        bson:"quantity"`
	Size      string    `json:"size,omitempty"  bson:"size,omitempty"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
	Price     float64   `json:"price"           bson:"price"`
	Image     string    `json:"image,omitempty" bson:"image,omitempty"`
}

type ShippingAddress struct {
	Name         string `json:"name"         bson:"name"`
	Phone        string `json:"phone"        bson:"phone"`
	Line1        string `json:"line1"        bson:"line1"`
	Line2        string `json:"line2"        bson:"line2"`
	City         string `json:"city"         bson:"city"`
	State        string `json:"state"        bson:"state"`
	Pincode      string `json:"pincode"      bson:"pincode"`
	Landmark     string `json:"landmark"     bson:"landmark"`
	Instructions string `json:"instructions" bson:"instructions"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"primaryKey"                json:"id"              bson:"_id"`
	UserID          uuid.UUID       `gorm:"index;not null"            json:"userId"          bson:"userId"`
	Items           []OrderItem     `gorm:"type:text;serializer:json" json:"items"           bson:"items"`
	ShippingAddress ShippingAddress `gorm:"type:text;serializer:json" json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   string          `gorm:"not null"                  json:"paymentMethod"   bson:"paymentMethod"`
	PaymentStatus   string          `gorm:"not null;index"            json:"paymentStatus"   bson:"paymentStatus"`
	OrderStatus     string          `gorm:"not null"                  json:"orderStatus"     bson:"orderStatus"`
	TotalAmount     float64         `gorm:"not null"                  json:"totalAmount"     bson:"totalAmount"`
	PaymentID       string          `json:"paymentId,omitempty"   bson:"paymentId,omitempty"`
	InvoiceURL      string          `json:"invoiceUrl,omitempty"  bson:"invoiceUrl,omitempty"`
	TrackingURL     string          `json:"trackingUrl,omitempty" bson:"trackingUrl,omitempty"`
	ReturnEligible  bool            `json:"returnEligible"        bson:"returnEligible"`
	CreatedAt       time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type CartItem struct {
	ProductID uuid.UUID `json:"productId"       bson:"productId"`
	Quantity  int       `json:"quantity"        bson:"quantity"`
	Price     float64   `json:"price"           bson:"price"`
	Size      string    `json:"size,omitempty"  bson:"size,omitempty"`
	Color     string    `json:"color,omitempty" bson:"color,omitempty"`
}

// Cart is a single document per user holding its lines inline.
type Cart struct {
	ID        uuid.UUID  `gorm:"primaryKey"                json:"id"        bson:"_id"`
	UserID    uuid.UUID  `gorm:"uniqueIndex;not null"      json:"userId"    bson:"userId"`
	Items     []CartItem `gorm:"type:text;serializer:json" json:"items"     bson:"items"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
