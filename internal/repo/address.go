package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return translate(r.DB.WithContext(ctx).Create(a).Error)
}

func (r *GormRepo) GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	return first[models.Address](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var items []models.Address
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.Address) error {
	return translate(r.DB.WithContext(ctx).Save(a).Error)
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.Address](ctx, r.DB, id)
}

func (r *GormRepo) ClearDefaultAddress(ctx context.Context, userID, keepID uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Address{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keepID, true).
		UpdateColumn("is_default", false).Error
}

func (r *GormRepo) CreateReturn(ctx context.Context, rr *models.ReturnRequest) error {
	return translate(r.DB.WithContext(ctx).Create(rr).Error)
}

func (r *GormRepo) GetReturn(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	return first[models.ReturnRequest](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) ListReturnsByUser(ctx context.Context, userID uuid.UUID) ([]models.ReturnRequest, error) {
	var items []models.ReturnRequest
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListReturns(ctx context.Context, offset, limit int) (int64, []models.ReturnRequest, error) {
	return page[models.ReturnRequest](r.DB.WithContext(ctx), "created_at DESC", offset, limit)
}

func (r *GormRepo) SaveReturn(ctx context.Context, rr *models.ReturnRequest) error {
	return translate(r.DB.WithContext(ctx).Save(rr).Error)
}
