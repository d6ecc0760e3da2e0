package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return first[models.Cart](r.DB.WithContext(ctx), "user_id = ?", userID)
}

// SaveCart inserts the cart on first save and rewrites it afterwards.
func (r *GormRepo) SaveCart(ctx context.Context, c *models.Cart) error {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	if c.ID == uuid.Nil {
		return translate(r.DB.WithContext(ctx).Create(c).Error)
	}
	return translate(r.DB.WithContext(ctx).Save(c).Error)
}

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(r.DB.WithContext(ctx).Create(o).Error)
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return first[models.Order](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return page[models.Order](r.DB.WithContext(ctx), "created_at DESC", offset, limit)
}

func (r *GormRepo) SaveOrder(ctx context.Context, o *models.Order) error {
	return translate(r.DB.WithContext(ctx).Save(o).Error)
}

func (r *GormRepo) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) SumPaidOrders(ctx context.Context) (float64, error) {
	var total float64
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ?", models.PaymentPaid).
		Scan(&total).Error
	return total, err
}

func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return translate(r.DB.WithContext(ctx).Create(rv).Error)
}

func (r *GormRepo) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return first[models.Review](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Review](ctx, r.DB, id)
}

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var items []models.Review
	if err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ProductRatings(ctx context.Context, productID uuid.UUID) ([]int, error) {
	var ratings []int
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).
		Where("product_id = ?", productID).
		Pluck("rating", &ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}
