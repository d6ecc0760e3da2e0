package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/notify"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type AccountService struct {
	Users     repo.Users
	Products  repo.Products
	Orders    repo.Orders
	Addresses repo.Addresses
	Returns   repo.Returns
	Mailer    notify.Mailer
	Events    events.Publisher
	Now       func() time.Time
}

// Account is everything the account page renders in one round trip.
type Account struct {
	User      *models.User
	Orders    []models.Order
	Addresses []models.Address
	Returns   []models.ReturnRequest
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AccountService) Profile(ctx context.Context, p Principal) (*models.User, error) {
	u, err := s.Users.GetUser(ctx, p.UserID)
	if err != nil {
		return nil, fromRepo(err, "User")
	}
	return u, nil
}

// UpdateProfile changes the given fields. A new email must be verified again.
func (s *AccountService) UpdateProfile(ctx context.Context, p Principal, req transport.UpdateProfileRequest) (*models.User, error) {
	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		u.Name = name
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" && phone != u.Phone {
		u.Phone = phone
		u.PhoneVerified = false
	}
	if req.Password != "" {
		pwHash, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = pwHash
	}

	var code string
	if email := normalizeEmail(req.Email); email != "" && email != u.Email {
		if code, err = verificationCode(); err != nil {
			return nil, err
		}
		exp := s.now().Add(codeTTL)
		u.Email = email
		u.EmailVerified = false
		u.EmailVerificationCode = code
		u.EmailVerificationExpires = &exp
	}

	if err := s.Users.SaveUser(ctx, u); err != nil {
		if isDuplicate(err) {
			return nil, conflict("Email already in use")
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	if code != "" {
		sendMail(ctx, s.Mailer, u.Email, "Verify your email", "Your email verification code is "+code)
	}

	events.Emit(ctx, s.Events, events.TopicUser, u.ID.String(), map[string]any{
		"type":   "user_updated",
		"userID": u.ID,
	})
	return u, nil
}

func (s *AccountService) DeleteProfile(ctx context.Context, p Principal) error {
	if err := s.Users.DeleteUser(ctx, p.UserID); err != nil {
		return fromRepo(err, "User")
	}
	events.Emit(ctx, s.Events, events.TopicUser, p.UserID.String(), map[string]any{
		"type":   "user_deleted",
		"userID": p.UserID,
	})
	return nil
}

// Wishlist returns the wishlisted products in the order they were added.
// Products deleted since are skipped.
func (s *AccountService) Wishlist(ctx context.Context, p Principal) ([]models.Product, error) {
	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(u.Wishlist) == 0 {
		return []models.Product{}, nil
	}
	found, err := s.Products.GetProductsByIDs(ctx, u.Wishlist)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return inOrder(u.Wishlist, found), nil
}

func (s *AccountService) AddToWishlist(ctx context.Context, p Principal, req transport.WishlistRequest) ([]models.Product, error) {
	productID, err := parseID("productId", req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		return nil, fromRepo(err, "Product")
	}

	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(u.Wishlist, productID) {
		u.Wishlist = append(u.Wishlist, productID)
		if err := s.Users.SaveUser(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
	}
	return s.Wishlist(ctx, p)
}

func (s *AccountService) RemoveFromWishlist(ctx context.Context, p Principal, rawProductID string) ([]models.Product, error) {
	productID, err := parseID("productId", rawProductID)
	if err != nil {
		return nil, err
	}
	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	if i := slices.Index(u.Wishlist, productID); i >= 0 {
		u.Wishlist = slices.Delete(u.Wishlist, i, i+1)
		if err := s.Users.SaveUser(ctx, u); err != nil {
			return nil, fmt.Errorf("save user: %w", err)
		}
	}
	return s.Wishlist(ctx, p)
}

func (s *AccountService) Account(ctx context.Context, p Principal) (*Account, error) {
	u, err := s.Profile(ctx, p)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.ListOrdersByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	addrs, err := s.Addresses.ListAddresses(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	rets, err := s.Returns.ListReturnsByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return &Account{User: u, Orders: orders, Addresses: addrs, Returns: rets}, nil
}
