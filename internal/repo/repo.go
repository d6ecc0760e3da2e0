package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/ecommerce_api/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ProductFilter struct {
	Category string
	Query    string
}

type Users interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByResetToken(ctx context.Context, token string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

type Tokens interface {
	RevokeToken(ctx context.Context, t *models.RevokedToken) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type Products interface {
	CreateProduct(ctx context.Context, p *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
	ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	IncrementCounter(ctx context.Context, id uuid.UUID, counter models.Counter, by int) error
	SetRating(ctx context.Context, id uuid.UUID, rating float64, count int) error
	CountProducts(ctx context.Context) (int64, error)
}

type Categories interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type Carts interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	SaveCart(ctx context.Context, c *models.Cart) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error
	CountOrders(ctx context.Context) (int64, error)
	SumPaidOrders(ctx context.Context) (float64, error)
}

type Reviews interface {
	CreateReview(ctx context.Context, r *models.Review) error
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
	ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	ProductRatings(ctx context.Context, productID uuid.UUID) ([]int, error)
}

type Addresses interface {
	CreateAddress(ctx context.Context, a *models.Address) error
	GetAddress(ctx context.Context, id uuid.UUID) (*models.Address, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	SaveAddress(ctx context.Context, a *models.Address) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	ClearDefaultAddress(ctx context.Context, userID, keepID uuid.UUID) error
}

type Returns interface {
	CreateReturn(ctx context.Context, r *models.ReturnRequest) error
	GetReturn(ctx context.Context, id uuid.UUID) (*models.ReturnRequest, error)
	ListReturnsByUser(ctx context.Context, userID uuid.UUID) ([]models.ReturnRequest, error)
	ListReturns(ctx context.Context, offset, limit int) (int64, []models.ReturnRequest, error)
	SaveReturn(ctx context.Context, r *models.ReturnRequest) error
}

// Store is everything a backend has to provide to run the API.
type Store interface {
	Users
	Tokens
	Products
	Categories
	Carts
	Orders
	Reviews
	Addresses
	Returns
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type GormRepo struct {
	DB *gorm.DB
}

var _ Store = (*GormRepo)(nil)

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *GormRepo) Close(context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func first[T any](q *gorm.DB, query string, args ...any) (*T, error) {
	var out T
	if err := q.Where(query, args...).First(&out).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// page runs a count and a window over the same filtered query.
func page[T any](q *gorm.DB, order string, offset, limit int) (int64, []T, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Model(new(T)).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]T, 0, limit)
	if err := q.Model(new(T)).Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func isDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
