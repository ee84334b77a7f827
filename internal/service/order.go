package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// CheckoutItem is one line of the client-submitted checkout payload. Name,
// image and price come from the out-of-scope pricing step and are trusted;
// they become the order's purchase-time snapshot.
type CheckoutItem struct {
	ProductID int64   `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
}

// CheckoutRequest is the validated checkout payload handed to Checkout.
type CheckoutRequest struct {
	Items         []CheckoutItem         `json:"items" binding:"required,min=1,dive"`
	Subtotal      float64                `json:"subtotal"`
	Discount      float64                `json:"discount"`
	Shipping      float64                `json:"shipping"`
	Total         float64                `json:"total"`
	ShippingInfo  models.ShippingDetails `json:"shippingInfo"`
	PaymentMethod string                 `json:"paymentMethod" binding:"required"`
}

// OrderService runs the checkout and cancellation sequences. Both are
// sequential, per-product store round trips with no cross-document
// transaction: a store failure partway through the stock pass leaves the
// earlier lines applied with no compensation. Stock itself can never go
// negative because each decrement is conditional at the store, but callers
// must treat a mid-sequence error as a partially applied operation.
type OrderService struct {
	stores store.Stores
}

func NewOrderService(s store.Stores) *OrderService {
	return &OrderService{stores: s}
}

// Checkout turns a checkout payload into stock decrements, an order record
// and an emptied cart.
//
// The first pass re-reads every product and rejects the payload without
// touching stock when a product is gone or short, so stale client totals
// fail with the current numbers. The second pass applies conditional
// decrements; one losing a race to another checkout surfaces as
// InsufficientStock discovered at commit time.
func (s *OrderService) Checkout(ctx context.Context, userID primitive.ObjectID, req CheckoutRequest) (models.Order, error) {
	for _, item := range req.Items {
		p, err := s.stores.Products.Get(ctx, item.ProductID)
		if err != nil {
			return models.Order{}, err
		}
		if p.Stock < item.Quantity {
			return models.Order{}, &models.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Available: p.Stock,
				Requested: item.Quantity,
			}
		}
	}

	for _, item := range req.Items {
		if err := s.stores.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return models.Order{}, err
		}
	}

	status := models.StatusPaid
	if req.PaymentMethod == models.PaymentCashOnDelivery {
		status = models.StatusPending
	}
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	order := models.Order{
		UserID:        userID,
		Code:          newOrderCode(),
		Items:         items,
		Subtotal:      req.Subtotal,
		Discount:      req.Discount,
		Shipping:      req.Shipping,
		Total:         req.Total,
		ShippingInfo:  req.ShippingInfo,
		PaymentMethod: req.PaymentMethod,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	order, err := s.stores.Orders.Create(ctx, order)
	if err != nil {
		return models.Order{}, err
	}

	cart, err := s.stores.Carts.Get(ctx, userID)
	if err == nil {
		cart.Items = []models.CartItem{}
		if err := s.stores.Carts.Save(ctx, cart); err != nil {
			return models.Order{}, err
		}
	} else if !models.IsNotFound(err) {
		return models.Order{}, err
	}

	log.Info().
		Str("user", userID.Hex()).
		Str("order", order.Code).
		Int("lines", len(order.Items)).
		Str("status", string(order.Status)).
		Msg("order placed")
	return order, nil
}

// Cancel restores the stock an order had taken and marks it cancelled. The
// restore is best-effort per line: products removed from the catalog since
// purchase are skipped. The status flips only after the restore loop, so a
// failure partway leaves earlier lines restored and the order still active;
// retrying would restore them again.
func (s *OrderService) Cancel(ctx context.Context, userID primitive.ObjectID, code string) (models.Order, error) {
	code = strings.TrimSpace(code)
	order, err := s.stores.Orders.GetByCode(ctx, userID, code)
	if err != nil {
		return models.Order{}, err
	}
	if order.Status == models.StatusCancelled {
		return models.Order{}, models.NewAlreadyCancelledError(code)
	}

	for _, item := range order.Items {
		if item.ProductID == 0 {
			continue
		}
		err := s.stores.Products.IncrementStock(ctx, item.ProductID, item.Quantity)
		if models.IsNotFound(err) {
			log.Warn().
				Str("order", code).
				Int64("productId", item.ProductID).
				Msg("skipping stock restore for delisted product")
			continue
		}
		if err != nil {
			return models.Order{}, err
		}
	}

	if err := s.stores.Orders.UpdateStatus(ctx, order.ID, models.StatusCancelled); err != nil {
		return models.Order{}, err
	}
	order.Status = models.StatusCancelled
	log.Info().Str("user", userID.Hex()).Str("order", code).Msg("order cancelled")
	return order, nil
}

// ListByUser returns the user's order history, newest first.
func (s *OrderService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.stores.Orders.ListByUser(ctx, userID)
}

// GetByCode returns one of the user's orders by its code.
func (s *OrderService) GetByCode(ctx context.Context, userID primitive.ObjectID, code string) (models.Order, error) {
	return s.stores.Orders.GetByCode(ctx, userID, strings.TrimSpace(code))
}

// AdvanceStatus applies a forward fulfillment transition to an order,
// validated against the status machine. Cancellation is rejected here; it
// has stock side effects and must go through Cancel.
func (s *OrderService) AdvanceStatus(ctx context.Context, code string, next models.OrderStatus) (models.Order, error) {
	code = strings.TrimSpace(code)
	order, err := s.stores.Orders.FindByCode(ctx, code)
	if err != nil {
		return models.Order{}, err
	}
	if next == models.StatusCancelled || !order.Status.CanTransitionTo(next) {
		return models.Order{}, &models.InvalidTransitionError{Code: code, From: order.Status, To: next}
	}
	if err := s.stores.Orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return models.Order{}, err
	}
	order.Status = next
	return order, nil
}

func newOrderCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "SAF-" + strings.ToUpper(raw[:10])
}
