package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/pricing"
)

// limitedStock is the stock level at or below which a product counts as
// limited when the flag was never set explicitly.
const limitedStock = 5

type ProductCard struct {
	ID            uuid.UUID        `json:"id"`
	Name          string           `json:"name"`
	Price         float64          `json:"price"`
	OriginalPrice float64          `json:"originalPrice"`
	Images        []string         `json:"images"`
	Image         *string          `json:"image"`
	Category      string           `json:"category"`
	Collection    string           `json:"collection"`
	Stock         int              `json:"stock"`
	Sizes         []string         `json:"sizes"`
	Variants      []models.Variant `json:"variants"`
	IsNew         bool             `json:"isNew"`
	IsBestSeller  bool             `json:"isBestSeller"`
	IsLimited     bool             `json:"isLimited"`
}

type ProductResponse struct {
	ProductCard
	Description           string            `json:"description"`
	MRP                   *float64          `json:"mrp,omitempty"`
	Rating                float64           `json:"rating"`
	ReviewCount           int               `json:"reviewCount"`
	Colors                []string          `json:"colors"`
	ViewCount             int               `json:"viewCount"`
	AddedToCartCount      int               `json:"addedToCartCount"`
	TrendingScore         float64           `json:"trendingScore"`
	DropDate              *time.Time        `json:"dropDate"`
	ReleaseDate           *time.Time        `json:"releaseDate"`
	ProductSpecifications map[string]string `json:"productSpecifications"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

func ToProductCard(p *models.Product) ProductCard {
	images := nonNil(p.Images)
	var image *string
	if len(images) > 0 {
		image = &images[0]
	}

	original := p.Price
	switch {
	case p.OriginalPrice != nil:
		original = *p.OriginalPrice
	case p.MRP != nil:
		original = *p.MRP
	}

	limited := p.Stock > 0 && p.Stock <= limitedStock
	if p.IsLimited != nil {
		limited = *p.IsLimited
	}

	sizes := p.Sizes
	if len(sizes) == 0 {
		sizes = variantValues(p.Variants, func(v models.Variant) string { return v.Size })
	}

	return ProductCard{
		ID:            p.ID,
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: original,
		Images:        images,
		Image:         image,
		Category:      p.Category,
		Collection:    p.Collection,
		Stock:         p.Stock,
		Sizes:         nonNil(sizes),
		Variants:      nonNil(p.Variants),
		IsNew:         p.IsNew,
		IsBestSeller:  p.IsBestSeller,
		IsLimited:     limited,
	}
}

func ToProductResponse(p *models.Product) ProductResponse {
	colors := p.Colors
	if len(colors) == 0 {
		colors = variantValues(p.Variants, func(v models.Variant) string { return v.Color })
	}
	specs := p.ProductSpecifications
	if specs == nil {
		specs = map[string]string{}
	}

	return ProductResponse{
		ProductCard:           ToProductCard(p),
		Description:           p.Description,
		MRP:                   p.MRP,
		Rating:                p.Rating,
		ReviewCount:           p.ReviewCount,
		Colors:                nonNil(colors),
		ViewCount:             p.ViewCount,
		AddedToCartCount:      p.AddedToCartCount,
		TrendingScore:         p.TrendingScore,
		DropDate:              p.DropDate,
		ReleaseDate:           p.ReleaseDate,
		ProductSpecifications: specs,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func ToProductCards(ps []models.Product) []ProductCard {
	return mapSlice(ps, ToProductCard)
}

func ToProductResponses(ps []models.Product) []ProductResponse {
	return mapSlice(ps, ToProductResponse)
}

// variantValues collects distinct non-empty values in first-seen order.
func variantValues(vs []models.Variant, pick func(models.Variant) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, v := range vs {
		s := pick(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

type CartResponse struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"userId"`
	Items       []models.CartItem `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func ToCartResponse(c *models.Cart) CartResponse {
	return CartResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Items:       nonNil(c.Items),
		TotalAmount: pricing.CartTotal(c.Items),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type AccountOrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Qty       int       `json:"qty"`
	Size      *string   `json:"size"`
	Color     *string   `json:"color"`
	Price     float64   `json:"price"`
	Image     *string   `json:"image"`
}

type AccountOrder struct {
	ID              uuid.UUID               `json:"id"`
	Date            time.Time               `json:"date"`
	Status          string                  `json:"status"`
	Total           float64                 `json:"total"`
	Items           []AccountOrderItem      `json:"items"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   *string                 `json:"paymentMethod"`
	InvoiceURL      *string                 `json:"invoiceUrl"`
	TrackingURL     *string                 `json:"trackingUrl"`
	ReturnEligible  bool                    `json:"returnEligible"`
}

func ToAccountOrder(o *models.Order) AccountOrder {
	items := make([]AccountOrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = AccountOrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Quantity,
			Size:      optional(it.Size),
			Color:     optional(it.Color),
			Price:     it.Price,
			Image:     optional(it.Image),
		}
	}

	var addr *models.ShippingAddress
	if o.ShippingAddress != (models.ShippingAddress{}) {
		a := o.ShippingAddress
		addr = &a
	}

	return AccountOrder{
		ID:              o.ID,
		Date:            o.CreatedAt,
		Status:          models.NormalizeOrderStatus(o.OrderStatus),
		Total:           o.TotalAmount,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   optional(o.PaymentMethod),
		InvoiceURL:      optional(o.InvoiceURL),
		TrackingURL:     optional(o.TrackingURL),
		ReturnEligible:  o.ReturnEligible,
	}
}

type AddressResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Line1        string    `json:"line1"`
	Line2        string    `json:"line2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	Country      string    `json:"country"`
	Landmark     string    `json:"landmark"`
	Instructions string    `json:"instructions"`
	IsDefault    bool      `json:"isDefault"`
}

func ToAddressResponse(a *models.Address) AddressResponse {
	return AddressResponse{
		ID:           a.ID,
		Name:         a.Name,
		Phone:        a.Phone,
		Line1:        a.Line1,
		Line2:        a.Line2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.PostalCode,
		Country:      a.Country,
		Landmark:     a.Landmark,
		Instructions: a.Instructions,
		IsDefault:    a.IsDefault,
	}
}

type ReturnResponse struct {
	ID        uuid.UUID  `json:"id"`
	OrderID   *uuid.UUID `json:"orderId"`
	ProductID *uuid.UUID `json:"productId"`
	Reason    string     `json:"reason"`
	Comment   *string    `json:"comment"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func ToReturnResponse(r *models.ReturnRequest) ReturnResponse {
	return ReturnResponse{
		ID:        r.ID,
		OrderID:   r.OrderID,
		ProductID: r.ProductID,
		Reason:    r.Reason,
		Comment:   optional(r.Comment),
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func mapSlice[T, R any](in []T, f func(*T) R) []R {
	out := make([]R, len(in))
	for i := range in {
		out[i] = f(&in[i])
	}
	return out
}

func ToAccountOrders(orders []models.Order) []AccountOrder {
	return mapSlice(orders, ToAccountOrder)
}

func ToAddressResponses(as []models.Address) []AddressResponse {
	return mapSlice(as, ToAddressResponse)
}

func ToReturnResponses(rs []models.ReturnRequest) []ReturnResponse {
	return mapSlice(rs, ToReturnResponse)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
