package mongostore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	_, err := s.c(colProducts).InsertOne(ctx, p)
	return translate(err)
}

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return findOne[models.Product](ctx, s.c(colProducts), bson.M{"_id": id})
}

func (s *Store) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return findAll[models.Product](ctx, s.c(colProducts), bson.M{"_id": bson.M{"$in": ids}})
}

func ciRegex(pattern string) bson.M {
	return bson.M{"$regex": pattern, "$options": "i"}
}

func (s *Store) ListProducts(ctx context.Context, f repo.ProductFilter, offset, limit int) (int64, []models.Product, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = ciRegex("^" + regexp.QuoteMeta(f.Category) + "$")
	}
	if f.Query != "" {
		q := regexp.QuoteMeta(f.Query)
		filter["$or"] = bson.A{
			bson.M{"name": ciRegex(q)},
			bson.M{"description": ciRegex(q)},
		}
	}
	return pageOf[models.Product](ctx, s.c(colProducts), filter, newestFirst(), offset, limit)
}

func (s *Store) SaveProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colProducts), p.ID, p)
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.c(colProducts), id)
}

func counterField(c models.Counter) (string, error) {
	switch c {
	case models.CounterViews:
		return "viewCount", nil
	case models.CounterAddToCart:
		return "addedToCartCount", nil
	}
	return "", fmt.Errorf("unknown counter %d", c)
}

func (s *Store) IncrementCounter(ctx context.Context, id uuid.UUID, counter models.Counter, by int) error {
	field, err := counterField(counter)
	if err != nil {
		return err
	}
	res, err := s.c(colProducts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{field: by}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) SetRating(ctx context.Context, id uuid.UUID, rating float64, count int) error {
	res, err := s.c(colProducts).UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"rating": rating, "reviewCount": count},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	return s.c(colProducts).CountDocuments(ctx, bson.M{})
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	_, err := s.c(colCategories).InsertOne(ctx, c)
	return translate(err)
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return findOne[models.Category](ctx, s.c(colCategories), bson.M{"_id": id})
}

func (s *Store) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findAll[models.Category](ctx, s.c(colCategories), filter, opts)
}

func (s *Store) SaveCategory(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colCategories), c.ID, c)
}

func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.c(colCategories), id)
}
