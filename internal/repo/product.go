package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return first[models.Product](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx)
	if f.Category != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(f.Category))
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	return page[models.Product](q, "created_at DESC", offset, limit)
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Save(p).Error)
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Product](ctx, r.DB, id)
}

func counterColumn(c models.Counter) (string, error) {
	switch c {
	case models.CounterViews:
		return "view_count", nil
	case models.CounterAddToCart:
		return "added_to_cart_count", nil
	}
	return "", fmt.Errorf("unknown counter %d", c)
}

func (r *GormRepo) IncrementCounter(ctx context.Context, id uuid.UUID, counter models.Counter, by int) error {
	col, err := counterColumn(counter)
	if err != nil {
		return err
	}
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", by))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) SetRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"rating": rating, "review_count": count})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Create(c).Error)
}

func (r *GormRepo) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return first[models.Category](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	q := r.DB.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var items []models.Category
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return translate(r.DB.WithContext(ctx).Save(c).Error)
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Category](ctx, r.DB, id)
}
