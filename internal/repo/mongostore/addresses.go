package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (s *Store) CreateAddress(ctx context.Context, a *models.Address) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	_, err := s.c(colAddresses).InsertOne(ctx, a)
	return translate(err)
}

func (s *Store) GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error) {
	return findOne[models.Address](ctx, s.c(colAddresses), bson.M{"_id": id})
}

func (s *Store) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "isDefault", Value: -1}, {Key: "createdAt", Value: -1}})
	return findAll[models.Address](ctx, s.c(colAddresses), bson.M{"userId": userID}, opts)
}

func (s *Store) SaveAddress(ctx context.Context, a *models.Address) error {
	a.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colAddresses), a.ID, a)
}

func (s *Store) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.c(colAddresses), id)
}

func (s *Store) ClearDefaultAddress(ctx context.Context, userID, keepID uuid.UUID) error {
	_, err := s.c(colAddresses).UpdateMany(ctx,
		bson.M{"userId": userID, "_id": bson.M{"$ne": keepID}, "isDefault": true},
		bson.M{"$set": bson.M{"isDefault": false}},
	)
	return err
}

func (s *Store) CreateReturn(ctx context.Context, r *models.ReturnRequest) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	_, err := s.c(colReturns).InsertOne(ctx, r)
	return translate(err)
}

func (s *Store) GetReturn(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error) {
	return findOne[models.ReturnRequest](ctx, s.c(colReturns), bson.M{"_id": id})
}

func (s *Store) ListReturnsByUser(ctx context.Context, userID uuid.UUID) ([]models.ReturnRequest, error) {
	opts := options.Find().SetSort(newestFirst())
	return findAll[models.ReturnRequest](ctx, s.c(colReturns), bson.M{"userId": userID}, opts)
}

func (s *Store) ListReturns(ctx context.Context, offset, limit int) (int64, []models.ReturnRequest, error) {
	return pageOf[models.ReturnRequest](ctx, s.c(colReturns), bson.M{}, newestFirst(), offset, limit)
}

func (s *Store) SaveReturn(ctx context.Context, r *models.ReturnRequest) error {
	r.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colReturns), r.ID, r)
}
