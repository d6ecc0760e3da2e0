package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
)

type AdminService struct {
	Users    repo.Users
	Orders   repo.Orders
	Products repo.Products
	Events   events.Publisher
}

type DashboardStats struct {
	UsersCount    int64   `json:"usersCount"`
	OrdersCount   int64   `json:"ordersCount"`
	ProductsCount int64   `json:"productsCount"`
	TotalSales    float64 `json:"totalSales"`
}

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error) {
	return s.Users.ListUsers(ctx, offset, limit)
}

func (s *AdminService) ListOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Orders.ListOrders(ctx, offset, limit)
}

// DashboardStats counts sales over paid orders only.
func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.Users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	orders, err := s.Orders.CountOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	products, err := s.Products.CountProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	sales, err := s.Orders.SumPaidOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum sales: %w", err)
	}
	return &DashboardStats{
		UsersCount:    users,
		OrdersCount:   orders,
		ProductsCount: products,
		TotalSales:    decimal.NewFromFloat(sales).Round(2).InexactFloat64(),
	}, nil
}

func (s *AdminService) PromoteUser(ctx context.Context, rawID string) (*models.User, error) {
	id, err := parseID("id", rawID)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetUser(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	if u.Role != models.RoleAdmin {
		u.Role = models.RoleAdmin
		if err := s.Users.SaveUser(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
		events.Emit(ctx, s.Events, events.TopicUser, u.ID.String(), map[string]any{
			"type":   "user_promoted",
			"userID": u.ID,
		})
	}
	return u, nil
}
