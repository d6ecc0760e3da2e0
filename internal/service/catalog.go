package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

// Searcher is the full-text index kept next to the store.
type Searcher interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type CatalogService struct {
	Products repo.Products
	Search   Searcher
	Events   events.Publisher
}

func (s *CatalogService) ListProducts(ctx context.Context, q transport.ProductQuery, offset, limit int) (int64, []models.Product, error) {
	f := repo.ProductFilter{
		Category: strings.TrimSpace(q.Category),
		Query:    strings.TrimSpace(q.Query),
	}
	return s.Products.ListProducts(ctx, f, offset, limit)
}

// SearchProducts asks the index first and falls back to a store scan when the
// index is absent or failing.
func (s *CatalogService) SearchProducts(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, invalid("q is required", "q", "required")
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, query, offset, limit)
		if err == nil {
			found, err := s.Products.GetProductsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, fmt.Errorf("load products: %w", err)
			}
			return total, inOrder(ids, found), nil
		}
		l.Warn("search_fallback", "reason", "index unavailable", "error", err)
	}

	return s.Products.ListProducts(ctx, repo.ProductFilter{Query: query}, offset, limit)
}

// GetProduct returns the product and counts the view.
func (s *CatalogService) GetProduct(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Product")
	}

	if err := s.Products.IncrementCounter(ctx, id, models.CounterViews, 1); err != nil {
		logging.FromContext(ctx).Warn("view_count_error", "product_id", id, "error", err)
	} else {
		p.ViewCount++
	}
	return p, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.ProductRequest) (*models.Product, error) {
	var name, price string
	if req.Name != nil {
		name = *req.Name
	}
	if req.Price != nil {
		price = fmt.Sprint(*req.Price)
	}
	if err := requireFields("name and price are required", "name", name, "price", price); err != nil {
		return nil, err
	}

	p := &models.Product{}
	if err := applyProduct(p, req); err != nil {
		return nil, err
	}
	if err := s.Products.CreateProduct(ctx, p); err != nil {
		return nil, fromRepo(err, "Product")
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, p.ID.String(), map[string]any{
		"type":      "product_created",
		"productID": p.ID,
		"name":      p.Name,
		"price":     p.Price,
	})
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, rawID string, req transport.ProductRequest) (*models.Product, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}

	p, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "Product")
	}
	if err := applyProduct(p, req); err != nil {
		return nil, err
	}
	if err := s.Products.SaveProduct(ctx, p); err != nil {
		return nil, fromRepo(err, "Product")
	}

	s.index(ctx, p)
	events.Emit(ctx, s.Events, events.TopicProduct, p.ID.String(), map[string]any{
		"type":      "product_updated",
		"productID": p.ID,
		"price":     p.Price,
	})
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}
	if err := s.Products.DeleteProduct(ctx, id); err != nil {
		return fromRepo(err, "Product")
	}

	if s.Search != nil {
		if err := s.Search.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_delete_error", "product_id", id, "error", err)
		}
	}
	events.Emit(ctx, s.Events, events.TopicProduct, id.String(), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return nil
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexProduct(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
	}
}

func applyProduct(p *models.Product, req transport.ProductRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return invalid("name cannot be empty", "name", "required")
		}
		p.Name = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return invalid("price cannot be negative", "price", "must be >= 0")
		}
		p.Price = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return invalid("stock cannot be negative", "stock", "must be >= 0")
		}
		p.Stock = *req.Stock
	}
	for i, v := range req.Variants {
		if v.Stock < 0 {
			return invalid("variant stock cannot be negative", fmt.Sprintf("variants[%d].stock", i), "must be >= 0")
		}
	}

	setIf(&p.Description, req.Description)
	setIf(&p.Category, req.Category)
	setIf(&p.Collection, req.Collection)
	setIf(&p.IsNew, req.IsNew)
	setIf(&p.IsBestSeller, req.IsBestSeller)
	setIf(&p.TrendingScore, req.TrendingScore)

	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.OriginalPrice != nil {
		p.OriginalPrice = req.OriginalPrice
	}
	if req.MRP != nil {
		p.MRP = req.MRP
	}
	if req.IsLimited != nil {
		p.IsLimited = req.IsLimited
	}
	if req.DropDate != nil {
		p.DropDate = req.DropDate
	}
	if req.ReleaseDate != nil {
		p.ReleaseDate = req.ReleaseDate
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Variants != nil {
		p.Variants = req.Variants
	}
	if req.Sizes != nil {
		p.Sizes = req.Sizes
	}
	if req.Colors != nil {
		p.Colors = req.Colors
	}
	if req.ProductSpecifications != nil {
		p.ProductSpecifications = req.ProductSpecifications
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// inOrder arranges products in the order of ids, skipping ids that are gone.
func inOrder(ids []uuid.UUID, found []models.Product) []models.Product {
	byID := make(map[uuid.UUID]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
