package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

const (
	colUsers      = "users"
	colTokens     = "revoked_tokens"
	colProducts   = "products"
	colCategories = "categories"
	colCarts      = "carts"
	colOrders     = "orders"
	colReviews    = "reviews"
	colAddresses  = "addresses"
	colReturns    = "returns"
)

// Store keeps every aggregate in its own collection; line items, variants and
// addresses are embedded in their parent document.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ repo.Store = (*Store)(nil)

func Open(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().ApplyURI(uri).SetRegistry(NewRegistry())

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(dbName),
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and lookup indexes; it is safe to rerun.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		colUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		colTokens: {
			{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		},
		colProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		colCategories: {
			{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colCarts: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		colOrders:    {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colReviews:   {{Keys: bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}}}},
		colAddresses: {{Keys: bson.D{{Key: "userId", Value: 1}}}},
		colReturns:   {{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}

	for name, idx := range specs {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (s *Store) c(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return fmt.Errorf("%w: %v", repo.ErrNotFound, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", repo.ErrDuplicate, err)
	}
	return err
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func pageOf[T any](ctx context.Context, coll *mongo.Collection, filter any, sort bson.D, offset, limit int) (int64, []T, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	opts := options.Find().SetSort(sort).SetSkip(int64(offset)).SetLimit(int64(limit))
	items, err := findAll[T](ctx, coll, filter, opts)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id uuid.UUID, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, coll *mongo.Collection, id uuid.UUID) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func newestFirst() bson.D {
	return bson.D{{Key: "createdAt", Value: -1}}
}

func isDuplicate(err error) bool {
	return errors.Is(err, repo.ErrDuplicate)
}
