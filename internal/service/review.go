package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/ecommerce_api/internal/events"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/models"
	"github.com/Skotchmaster/ecommerce_api/internal/rating"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/transport"
)

type ReviewService struct {
	Reviews  repo.Reviews
	Products repo.Products
	Events   events.Publisher
}

// ratingStore joins the two halves rating.Sync needs.
type ratingStore struct {
	repo.Reviews
	repo.Products
}

func (s *ReviewService) Create(ctx context.Context, p Principal, req transport.CreateReviewRequest) (*models.Review, error) {
	productID, err := parseID("productId", req.ProductID)
	if err != nil {
		return nil, err
	}
	if req.Rating == nil {
		return nil, invalid("rating is required", "rating", "required")
	}
	if *req.Rating < 1 || *req.Rating > 5 {
		return nil, invalid("Rating must be between 1 and 5", "rating", "must be 1..5")
	}
	if _, err := s.Products.GetProduct(ctx, productID); err != nil {
		return nil, fromRepo(err, "Product")
	}

	r := &models.Review{
		UserID:    p.UserID,
		ProductID: productID,
		Rating:    *req.Rating,
		Title:     strings.TrimSpace(req.Title),
		Body:      strings.TrimSpace(req.Body),
	}
	if err := s.Reviews.CreateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	if err := s.sync(ctx, productID); err != nil {
		return nil, err
	}
	events.Emit(ctx, s.Events, events.TopicReview, productID.String(), map[string]any{
		"type":      "review_created",
		"reviewID":  r.ID,
		"productID": productID,
		"rating":    r.Rating,
	})
	return r, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, rawProductID string) ([]models.Review, error) {
	productID, err := parseID("productId", rawProductID)
	if err != nil {
		return nil, err
	}
	return s.Reviews.ListReviews(ctx, productID)
}

func (s *ReviewService) Delete(ctx context.Context, p Principal, rawID string) error {
	id, err := parseID("id", rawID)
	if err != nil {
		return err
	}
	r, err := s.Reviews.GetReview(ctx, id)
	if err != nil {
		return fromRepo(err, "Review")
	}
	if err := p.authorize(r.UserID); err != nil {
		return err
	}
	if err := s.Reviews.DeleteReview(ctx, id); err != nil {
		return fromRepo(err, "Review")
	}

	if err := s.sync(ctx, r.ProductID); err != nil {
		return err
	}
	events.Emit(ctx, s.Events, events.TopicReview, r.ProductID.String(), map[string]any{
		"type":      "review_deleted",
		"reviewID":  id,
		"productID": r.ProductID,
	})
	return nil
}

// sync recomputes the product aggregate after the review write has landed.
// A failure leaves the previous aggregate until the next review write.
func (s *ReviewService) sync(ctx context.Context, productID uuid.UUID) error {
	if _, err := rating.Sync(ctx, ratingStore{s.Reviews, s.Products}, productID); err != nil {
		logging.FromContext(ctx).Error("rating_sync_error", "product_id", productID, "error", err)
		return err
	}
	return nil
}
