// Package service implements the storefront business rules on top of the
// entity stores: cart reconciliation against live stock, the checkout and
// cancellation sequences, review gating and rating aggregation, catalog
// administration and account handling.
package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// CartService keeps each user's cart consistent with current stock. Carts
// are created lazily on first access; every read repairs drift caused by
// stock changes since the cart was last touched.
type CartService struct {
	stores store.Stores
}

func NewCartService(s store.Stores) *CartService {
	return &CartService{stores: s}
}

// Get returns the user's cart items, reconciled against current stock:
// lines whose product vanished or ran out are dropped, lines above stock
// are clamped down to it. Repairs are persisted before returning.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) ([]models.CartItem, error) {
	cart, err := s.stores.Carts.Get(ctx, userID)
	if models.IsNotFound(err) {
		cart = models.Cart{UserID: userID, Items: []models.CartItem{}}
		if err := s.stores.Carts.Save(ctx, cart); err != nil {
			return nil, err
		}
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, cart)
}

func (s *CartService) reconcile(ctx context.Context, cart models.Cart) ([]models.CartItem, error) {
	repaired := make([]models.CartItem, 0, len(cart.Items))
	changed := false
	for _, item := range cart.Items {
		p, err := s.stores.Products.Get(ctx, item.ProductID)
		if models.IsNotFound(err) {
			changed = true
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.Stock == 0 {
			changed = true
			continue
		}
		if item.Quantity > p.Stock {
			log.Info().
				Str("user", cart.UserID.Hex()).
				Int64("productId", item.ProductID).
				Int("from", item.Quantity).
				Int("to", p.Stock).
				Msg("clamping cart line to available stock")
			item.Quantity = p.Stock
			changed = true
		}
		repaired = append(repaired, item)
	}
	if changed {
		cart.Items = repaired
		if err := s.stores.Carts.Save(ctx, cart); err != nil {
			return nil, err
		}
	}
	return repaired, nil
}

// Add puts quantity units of a product into the user's cart, merging into
// an existing line when present. The combined line quantity must fit within
// current stock.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, productID int64, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		return nil, models.NewValidationError("quantity", "must be at least 1")
	}
	p, err := s.stores.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock <= 0 {
		return nil, models.NewOutOfStockError(productID)
	}

	cart, err := s.stores.Carts.Get(ctx, userID)
	if models.IsNotFound(err) {
		cart = models.Cart{UserID: userID}
	} else if err != nil {
		return nil, err
	}

	inCart := cart.Quantity(productID)
	if inCart+quantity > p.Stock {
		return nil, &models.InsufficientStockError{
			ProductID: productID,
			Name:      p.Name,
			Available: p.Stock,
			Requested: quantity,
			InCart:    inCart,
		}
	}

	if inCart > 0 {
		for i := range cart.Items {
			if cart.Items[i].ProductID == productID {
				cart.Items[i].Quantity += quantity
				break
			}
		}
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.stores.Carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// UpdateQuantity sets a cart line's quantity. A quantity of zero or less
// removes the line; that is the designed deletion path, not an error.
func (s *CartService) UpdateQuantity(ctx context.Context, userID primitive.ObjectID, productID int64, quantity int) ([]models.CartItem, error) {
	p, err := s.stores.Products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	cart, err := s.stores.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, item := range cart.Items {
		if item.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, &models.NotFoundError{Entity: "cart item", Ref: p.Name}
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		if quantity > p.Stock {
			return nil, &models.InsufficientStockError{
				ProductID: productID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: quantity,
			}
		}
		cart.Items[idx].Quantity = quantity
	}

	if err := s.stores.Carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart.Items, nil
}

// Remove deletes a line from the cart. Removing a product that is not in
// the cart is a no-op returning the current items.
func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, productID int64) ([]models.CartItem, error) {
	cart, err := s.stores.Carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, item := range cart.Items {
		if item.ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			if err := s.stores.Carts.Save(ctx, cart); err != nil {
				return nil, err
			}
			break
		}
	}
	return cart.Items, nil
}

// Clear empties the user's cart. Clearing an already-empty cart is a no-op;
// a missing cart is NotFound.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	cart, err := s.stores.Carts.Get(ctx, userID)
	if err != nil {
		return err
	}
	cart.Items = []models.CartItem{}
	return s.stores.Carts.Save(ctx, cart)
}
