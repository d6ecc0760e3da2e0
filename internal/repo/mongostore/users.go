package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.Prepare()
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	_, err := s.c(colUsers).InsertOne(ctx, u)
	return translate(err)
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return findOne[models.User](ctx, s.c(colUsers), bson.M{"_id": id})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.c(colUsers), bson.M{"email": email})
}

func (s *Store) GetUserByResetToken(ctx context.Context, token string) (*models.User, error) {
	return findOne[models.User](ctx, s.c(colUsers), bson.M{"resetPasswordToken": token})
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	u.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colUsers), u.ID, u)
}

func (s *Store) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.c(colUsers), id)
}

func (s *Store) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return pageOf[models.User](ctx, s.c(colUsers), bson.M{}, newestFirst(), offset, limit)
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	return s.c(colUsers).CountDocuments(ctx, bson.M{})
}

func (s *Store) RevokeToken(ctx context.Context, t *models.RevokedToken) error {
	t.CreatedAt = s.now()
	_, err := s.c(colTokens).InsertOne(ctx, t)
	if err = translate(err); err != nil && !isDuplicate(err) {
		return err
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.c(colTokens).CountDocuments(ctx, bson.M{"_id": jti})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
