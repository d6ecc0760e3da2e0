package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return first[models.User](r.DB.WithContext(ctx), "id = ?", id)
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return first[models.User](r.DB.WithContext(ctx), "email = ?", email)
}

func (r *GormRepo) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	return first[models.User](r.DB.WithContext(ctx), "reset_password_token = ?", token)
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Save(u).Error)
}

func (r *GormRepo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.User](ctx, r.DB, id)
}

func (r *GormRepo) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return page[models.User](r.DB.WithContext(ctx), "created_at DESC", offset, limit)
}

func (r *GormRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *GormRepo) RevokeToken(ctx context.Context, t *models.RevokedToken) error {
	err := translate(r.DB.WithContext(ctx).Create(t).Error)
	if err != nil && !isDuplicate(err) {
		return err
	}
	return nil
}

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
