package pricing

import (
	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

// Merge adds a priced line to the cart. A line with the same product and
// variant absorbs the quantity and takes the fresh price.
func Merge(items []models.CartItem, p Priced) []models.CartItem {
	for i := range items {
		it := &items[i]
		if SameVariant(it.ProductID, it.Size, it.Color, p.ProductID, p.Size, p.Color) {
			it.Quantity += p.Quantity
			it.Price = p.Price()
			return items
		}
	}
	return append(items, models.CartItem{
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		Price:     p.Price(),
		Size:      p.Size,
		Color:     p.Color,
	})
}

// Reprice refreshes every line from the given products and drops lines whose
// product is gone.
func Reprice(items []models.CartItem, products []models.Product) []models.CartItem {
	byID := make(map[uuid.UUID]float64, len(products))
	for _, p := range products {
		byID[p.ID] = p.Price
	}

	out := items[:0]
	for _, it := range items {
		price, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		it.Price = price
		out = append(out, it)
	}
	return out
}

func CartIDs(items []models.CartItem) []uuid.UUID {
	lines := make([]Line, len(items))
	for i, it := range items {
		lines[i] = Line{ProductID: it.ProductID}
	}
	return DistinctIDs(lines)
}

func FromPriced(lines []Priced) []models.CartItem {
	items := make([]models.CartItem, 0, len(lines))
	for _, l := range lines {
		items = Merge(items, l)
	}
	return items
}

// OrderItems snapshots name, price and the first image at creation time.
func OrderItems(lines []Priced) []models.OrderItem {
	out := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		var image string
		if len(l.Product.Images) > 0 {
			image = l.Product.Images[0]
		}
		out[i] = models.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Product.Name,
			Quantity:  l.Quantity,
			Size:      l.Size,
			Color:     l.Color,
			Price:     l.Price(),
			Image:     image,
		}
	}
	return out
}
