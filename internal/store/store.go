// Package store provides persistence for the storefront entities, backed by
// MongoDB in production and by an in-memory implementation in tests.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
)

// ProductStore persists catalog entries keyed by their stable numeric id.
type ProductStore interface {
	Get(ctx context.Context, id int64) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id int64) error

	// DecrementStock atomically subtracts qty from the product's stock,
	// failing with InsufficientStockError when fewer than qty units remain.
	// The condition and the subtraction are a single store operation, so
	// concurrent checkouts cannot drive stock negative.
	DecrementStock(ctx context.Context, id int64, qty int) error

	// IncrementStock adds qty back to the product's stock. Returns
	// NotFoundError when the product has been removed from the catalog.
	IncrementStock(ctx context.Context, id int64, qty int) error

	// SetRating stores the recomputed review aggregates.
	SetRating(ctx context.Context, id int64, rating float64, reviewCount int) error
}

// CartStore persists one cart per user.
type CartStore interface {
	// Get returns the user's cart, or NotFoundError when none exists yet.
	Get(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	// Save upserts the cart keyed by its user id.
	Save(ctx context.Context, cart models.Cart) error
}

// WishlistStore persists one wishlist per user.
type WishlistStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (models.Wishlist, error)
	Save(ctx context.Context, w models.Wishlist) error
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, u models.User) error
}

// OrderStore persists orders as their own collection with a user reference.
type OrderStore interface {
	Create(ctx context.Context, o models.Order) (models.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	// GetByCode resolves the user's order by its human-facing code.
	GetByCode(ctx context.Context, userID primitive.ObjectID, code string) (models.Order, error)
	// FindByCode resolves an order by code regardless of owner. Used by the
	// back office.
	FindByCode(ctx context.Context, code string) (models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}

// ReviewStore persists product reviews with a hard uniqueness constraint on
// the (user, product) pair.
type ReviewStore interface {
	// Create inserts the review, failing with DuplicateReviewError when the
	// user already reviewed the product.
	Create(ctx context.Context, r models.Review) error
	Exists(ctx context.Context, userID primitive.ObjectID, productID int64) (bool, error)
	// ListPublished returns published reviews, newest first, optionally
	// filtered to one product (productID == 0 means all products).
	ListPublished(ctx context.Context, productID int64) ([]models.Review, error)
}

// Stores bundles the per-entity stores handed to the service layer.
type Stores struct {
	Products  ProductStore
	Carts     CartStore
	Wishlists WishlistStore
	Users     UserStore
	Orders    OrderStore
	Reviews   ReviewStore
}
