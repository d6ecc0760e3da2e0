// Package pricing resolves cart and order lines against the product records
// and computes totals from those prices only.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrInvalidProductID = errors.New("invalid productId")
	ErrUnknownProduct   = errors.New("one or more products not found")
)

// Line is what a client may say about an item. Any price it sends is ignored.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
	Size      string
	Color     string
}

type Priced struct {
	Line
	Product models.Product
}

func (p Priced) Price() float64 {
	return p.Product.Price
}

type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// NormalizeVariant trims a size or color; blank means unset.
func NormalizeVariant(s string) string {
	return strings.TrimSpace(s)
}

func SameVariant(productA uuid.UUID, sizeA, colorA string, productB uuid.UUID, sizeB, colorB string) bool {
	return productA == productB &&
		NormalizeVariant(sizeA) == NormalizeVariant(sizeB) &&
		NormalizeVariant(colorA) == NormalizeVariant(colorB)
}

// Validate checks line shape without touching the store.
func Validate(lines []Line) error {
	for i, l := range lines {
		if l.ProductID == uuid.Nil {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	return nil
}

// Resolve prices every line from a single batch lookup. The lookup must find
// every distinct product id, otherwise nothing is priced.
func Resolve(ctx context.Context, lookup ProductLookup, lines []Line) ([]Priced, error) {
	if err := Validate(lines); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, nil
	}

	ids := DistinctIDs(lines)
	found, err := lookup.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lookup products: %w", err)
	}

	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	if len(byID) != len(ids) {
		return nil, ErrUnknownProduct
	}

	out := make([]Priced, len(lines))
	for i, l := range lines {
		l.Size = NormalizeVariant(l.Size)
		l.Color = NormalizeVariant(l.Color)
		out[i] = Priced{Line: l, Product: byID[l.ProductID]}
	}
	return out, nil
}

func DistinctIDs(lines []Line) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// LineTotal is price × quantity in exact decimal arithmetic.
func LineTotal(price float64, qty int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty)))
}

func round(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func PricedTotal(lines []Priced) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(LineTotal(l.Price(), l.Quantity))
	}
	return round(sum)
}

func CartTotal(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it.Price, it.Quantity))
	}
	return round(sum)
}

func OrderTotal(items []models.OrderItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(LineTotal(it.Price, it.Quantity))
	}
	return round(sum)
}
