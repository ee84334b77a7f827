// Package models defines the entities stored by the saffron storefront:
// users, catalog products, per-user carts and wishlists, orders and reviews.
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account holder. Orders reference users by id; they are not
// embedded in the user document.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Phone    string             `bson:"phone" json:"phone"`
	Password string             `bson:"password" json:"password,omitempty"`
	IsAdmin  bool               `bson:"isAdmin" json:"isAdmin"`
}

// Product is a catalog entry. The numeric id is assigned by the catalog
// owner at creation time and is the stable reference used by carts, orders
// and reviews. Stock is the single source of truth for availability and is
// mutated only by order placement and cancellation.
type Product struct {
	ID          int64   `bson:"_id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Price       float64 `bson:"price" json:"price"`
	Image       string  `bson:"image" json:"image"`
	Description string  `bson:"description" json:"description"`
	Stock       int     `bson:"stock" json:"stock"`
	Rating      float64 `bson:"rating" json:"rating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`
}

// CartItem is one product line in a cart.
type CartItem struct {
	ProductID int64 `bson:"productId" json:"productId"`
	Quantity  int   `bson:"quantity" json:"quantity"`
}

// Cart holds a user's pending items. One cart per user, created lazily on
// first access. Product ids are unique within a cart; adding an existing
// product merges into the existing line.
type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []CartItem         `bson:"items" json:"items"`
}

// Quantity returns the cart's current quantity for a product, or zero.
func (c *Cart) Quantity(productID int64) int {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item.Quantity
		}
	}
	return 0
}

// Wishlist holds product ids a user has saved for later. One per user.
type Wishlist struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	ProductIDs []int64            `bson:"productIds" json:"productIds"`
}

// OrderItem is a purchase-time snapshot of a product line. Name, image and
// price are copied from the catalog at checkout so the order keeps showing
// what the customer actually bought, whatever happens to the product later.
type OrderItem struct {
	ProductID int64   `bson:"productId" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image" json:"image"`
	Price     float64 `bson:"price" json:"price"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// ShippingDetails is the delivery address captured with an order.
type ShippingDetails struct {
	Name       string `bson:"name" json:"name"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone" json:"phone"`
}

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusPaid           OrderStatus = "paid"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCancelled      OrderStatus = "cancelled"
)

// statusRank orders the forward fulfillment chain. Cancelled sits outside
// the chain and is reachable from any non-terminal state.
var statusRank = map[OrderStatus]int{
	StatusPending:        0,
	StatusPaid:           1,
	StatusConfirmed:      2,
	StatusProcessing:     3,
	StatusShipped:        4,
	StatusOutForDelivery: 5,
	StatusDelivered:      6,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether an order in state s may move to next:
// forward along the fulfillment chain, or to cancelled from any
// non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// Purchased reports whether the status counts as a completed purchase for
// review eligibility: anything past pending that was not cancelled.
func (s OrderStatus) Purchased() bool {
	return s != StatusPending && s != StatusCancelled && s.Valid()
}

// Payment method indicators accepted at checkout.
const (
	PaymentCashOnDelivery = "cod"
	PaymentCard           = "card"
	PaymentUPI            = "upi"
)

// Order is an immutable purchase record; only Status changes after
// creation. Code is the human-facing order reference, distinct from the
// document id.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Code          string             `bson:"code" json:"code"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Subtotal      float64            `bson:"subtotal" json:"subtotal"`
	Discount      float64            `bson:"discount" json:"discount"`
	Shipping      float64            `bson:"shipping" json:"shipping"`
	Total         float64            `bson:"total" json:"total"`
	ShippingInfo  ShippingDetails    `bson:"shippingInfo" json:"shippingInfo"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Status        OrderStatus        `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// Contains reports whether the order includes the given product.
func (o *Order) Contains(productID int64) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// Review is one customer's verdict on one product. At most one review per
// (user, product) pair. UserName is snapshotted at creation so listing
// reviews does not need a join against users.
type Review struct {
	ID        string             `bson:"_id" json:"id"`
	ProductID int64              `bson:"productId" json:"productId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	UserName  string             `bson:"userName" json:"userName"`
	Rating    int                `bson:"rating" json:"rating"`
	Text      string             `bson:"text" json:"text"`
	Location  string             `bson:"location" json:"location"`
	Published bool               `bson:"published" json:"published"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
