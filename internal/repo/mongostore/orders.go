package mongostore

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

func (s *Store) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return findOne[models.Cart](ctx, s.c(colCarts), bson.M{"userId": userID})
}

func (s *Store) SaveCart(ctx context.Context, c *models.Cart) error {
	if c.Items == nil {
		c.Items = []models.CartItem{}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
		c.CreatedAt = s.now()
	}
	c.UpdatedAt = s.now()
	_, err := s.c(colCarts).ReplaceOne(ctx, bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	return translate(err)
}

func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	o.CreatedAt = s.now()
	o.UpdatedAt = o.CreatedAt
	_, err := s.c(colOrders).InsertOne(ctx, o)
	return translate(err)
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return findOne[models.Order](ctx, s.c(colOrders), bson.M{"_id": id})
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	opts := options.Find().SetSort(newestFirst())
	return findAll[models.Order](ctx, s.c(colOrders), bson.M{"userId": userID}, opts)
}

func (s *Store) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return pageOf[models.Order](ctx, s.c(colOrders), bson.M{}, newestFirst(), offset, limit)
}

func (s *Store) SaveOrder(ctx context.Context, o *models.Order) error {
	o.UpdatedAt = s.now()
	return replaceByID(ctx, s.c(colOrders), o.ID, o)
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	return s.c(colOrders).CountDocuments(ctx, bson.M{})
}

func (s *Store) SumPaidOrders(ctx context.Context) (float64, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"paymentStatus": models.PaymentPaid}},
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}},
	}
	cur, err := s.c(colOrders).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

func (s *Store) CreateReview(ctx context.Context, r *models.Review) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.CreatedAt = s.now()
	r.UpdatedAt = r.CreatedAt
	_, err := s.c(colReviews).InsertOne(ctx, r)
	return translate(err)
}

func (s *Store) GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	return findOne[models.Review](ctx, s.c(colReviews), bson.M{"_id": id})
}

func (s *Store) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, s.c(colReviews), id)
}

func (s *Store) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	opts := options.Find().SetSort(newestFirst())
	return findAll[models.Review](ctx, s.c(colReviews), bson.M{"productId": productID}, opts)
}

func (s *Store) ProductRatings(ctx context.Context, productID uuid.UUID) ([]int, error) {
	opts := options.Find().SetProjection(bson.M{"rating": 1})
	rows, err := findAll[struct {
		Rating int `bson:"rating"`
	}](ctx, s.c(colReviews), bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, err
	}

	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Rating
	}
	return out, nil
}
