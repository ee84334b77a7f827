package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// ReviewRequest is the payload for creating a review.
type ReviewRequest struct {
	ProductID int64  `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Text      string `json:"reviewText" binding:"required"`
	Location  string `json:"location"`
}

// ReviewService gates review creation on a qualifying purchase and keeps
// the product's rating aggregates in sync.
type ReviewService struct {
	stores store.Stores
}

func NewReviewService(s store.Stores) *ReviewService {
	return &ReviewService{stores: s}
}

// Create inserts a review and recomputes the product's rating aggregates.
// The author must have at least one order containing the product whose
// status counts as a purchase (paid or further along, not pending or
// cancelled), and may review each product only once.
//
// The aggregate recompute is a separate write after the insert; a crash in
// between leaves the review unreflected until the next review for the same
// product lands.
func (s *ReviewService) Create(ctx context.Context, userID primitive.ObjectID, req ReviewRequest) (models.Review, error) {
	if _, err := s.stores.Products.Get(ctx, req.ProductID); err != nil {
		return models.Review{}, err
	}

	orders, err := s.stores.Orders.ListByUser(ctx, userID)
	if err != nil {
		return models.Review{}, err
	}
	qualified := false
	for _, o := range orders {
		if o.Status.Purchased() && o.Contains(req.ProductID) {
			qualified = true
			break
		}
	}
	if !qualified {
		return models.Review{}, models.NewForbiddenError("reviews require a completed purchase of the product")
	}

	exists, err := s.stores.Reviews.Exists(ctx, userID, req.ProductID)
	if err != nil {
		return models.Review{}, err
	}
	if exists {
		return models.Review{}, models.NewDuplicateReviewError(req.ProductID)
	}

	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ID:        uuid.NewString(),
		ProductID: req.ProductID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Text:      req.Text,
		Location:  req.Location,
		Published: true,
		CreatedAt: time.Now().UTC(),
	}
	// The store's unique index is the backstop behind the Exists check; a
	// racing duplicate insert comes back as DuplicateReviewError here.
	if err := s.stores.Reviews.Create(ctx, review); err != nil {
		return models.Review{}, err
	}

	if err := s.recomputeRating(ctx, req.ProductID); err != nil {
		return models.Review{}, err
	}
	log.Info().
		Str("user", userID.Hex()).
		Int64("productId", req.ProductID).
		Int("rating", req.Rating).
		Msg("review published")
	return review, nil
}

// List returns published reviews, newest first. A zero productID lists
// reviews across the whole catalog.
func (s *ReviewService) List(ctx context.Context, productID int64) ([]models.Review, error) {
	return s.stores.Reviews.ListPublished(ctx, productID)
}

// recomputeRating recalculates the arithmetic mean of all published reviews
// from scratch and stores it rounded to one decimal place.
func (s *ReviewService) recomputeRating(ctx context.Context, productID int64) error {
	reviews, err := s.stores.Reviews.ListPublished(ctx, productID)
	if err != nil {
		return err
	}
	rating := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}
	return s.stores.Products.SetRating(ctx, productID, rating, len(reviews))
}
