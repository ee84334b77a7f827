package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
)

func checkoutFor(items ...CheckoutItem) CheckoutRequest {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	return CheckoutRequest{
		Items:         items,
		Subtotal:      subtotal,
		Shipping:      4.0,
		Total:         subtotal + 4.0,
		PaymentMethod: models.PaymentCard,
		ShippingInfo:  models.ShippingDetails{Name: "Asha", Address: "1 Crocus Lane", City: "Srinagar"},
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Negin Saffron 5g", Price: 18.5, Stock: 5})
	carts := NewCartService(stores)
	orders := NewOrderService(stores)
	ctx := context.Background()

	_, err := carts.Add(ctx, userID, 1, 2)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, checkoutFor(CheckoutItem{
		ProductID: 1, Quantity: 2, Name: "Negin Saffron 5g", Image: "negin.jpg", Price: 18.5,
	}))
	require.NoError(t, err)

	assert.NotEmpty(t, order.Code)
	assert.Equal(t, models.StatusPaid, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Negin Saffron 5g", order.Items[0].Name)
	assert.Equal(t, 18.5, order.Items[0].Price)

	assert.Equal(t, 3, productStock(t, stores, 1), "stock must drop by the ordered quantity")

	items, err := carts.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items, "cart must be emptied")

	history, err := orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, order.Code, history[0].Code)
}

func TestCheckoutCashOnDeliveryStartsPending(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	orders := NewOrderService(stores)

	req := checkoutFor(CheckoutItem{ProductID: 1, Quantity: 1, Name: "Saffron", Price: 10})
	req.PaymentMethod = models.PaymentCashOnDelivery

	order, err := orders.Checkout(context.Background(), userID, req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
}

func TestCheckoutValidationTouchesNoStock(t *testing.T) {
	stores, userID := newTestStores(t,
		models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5},
		models.Product{ID: 2, Name: "Gift Set", Price: 30, Stock: 1},
	)
	orders := NewOrderService(stores)
	ctx := context.Background()

	// second line is short; the first must not have been decremented
	_, err := orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 2, Name: "Saffron", Price: 10},
		CheckoutItem{ProductID: 2, Quantity: 3, Name: "Gift Set", Price: 30},
	))
	require.True(t, models.IsInsufficientStock(err))
	assert.Contains(t, err.Error(), "Gift Set")
	assert.Contains(t, err.Error(), "only 1 available")

	assert.Equal(t, 5, productStock(t, stores, 1))
	assert.Equal(t, 1, productStock(t, stores, 2))

	// vanished product
	_, err = orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 99, Quantity: 1, Name: "Ghost", Price: 1},
	))
	assert.True(t, models.IsNotFound(err))

	history, err := orders.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, history, "no order may exist after a failed checkout")
}

func TestCheckoutWithoutCartIsFine(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	orders := NewOrderService(stores)

	_, err := orders.Checkout(context.Background(), userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 1, Name: "Saffron", Price: 10},
	))
	require.NoError(t, err)
}

func TestCancelRestoresStock(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	orders := NewOrderService(stores)
	ctx := context.Background()

	order, err := orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 2, Name: "Saffron", Price: 10},
	))
	require.NoError(t, err)
	require.Equal(t, 3, productStock(t, stores, 1))

	cancelled, err := orders.Cancel(ctx, userID, " "+order.Code+" ")
	require.NoError(t, err, "code lookup must trim whitespace")
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, productStock(t, stores, 1))

	// second cancel is rejected and changes nothing
	_, err = orders.Cancel(ctx, userID, order.Code)
	require.True(t, models.IsAlreadyCancelled(err))
	assert.Equal(t, 5, productStock(t, stores, 1))
}

func TestCancelSkipsDelistedProducts(t *testing.T) {
	stores, userID := newTestStores(t,
		models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5},
		models.Product{ID: 2, Name: "Gift Set", Price: 30, Stock: 2},
	)
	orders := NewOrderService(stores)
	ctx := context.Background()

	order, err := orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 1, Name: "Saffron", Price: 10},
		CheckoutItem{ProductID: 2, Quantity: 1, Name: "Gift Set", Price: 30},
	))
	require.NoError(t, err)

	require.NoError(t, stores.Products.Delete(ctx, 2))

	cancelled, err := orders.Cancel(ctx, userID, order.Code)
	require.NoError(t, err, "restore is best-effort per line")
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Equal(t, 5, productStock(t, stores, 1))
}

func TestCancelUnknownCode(t *testing.T) {
	stores, userID := newTestStores(t)
	orders := NewOrderService(stores)
	_, err := orders.Cancel(context.Background(), userID, "SAF-NOPE")
	assert.True(t, models.IsNotFound(err))
}

func TestOrderSnapshotSurvivesCatalogChanges(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron 5g", Price: 18.5, Stock: 5})
	orders := NewOrderService(stores)
	ctx := context.Background()

	order, err := orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 1, Name: "Saffron 5g", Image: "old.jpg", Price: 18.5},
	))
	require.NoError(t, err)

	p, err := stores.Products.Get(ctx, 1)
	require.NoError(t, err)
	p.Name = "Saffron 5g (new pack)"
	p.Price = 25
	require.NoError(t, stores.Products.Update(ctx, p))

	stored, err := orders.GetByCode(ctx, userID, order.Code)
	require.NoError(t, err)
	assert.Equal(t, "Saffron 5g", stored.Items[0].Name)
	assert.Equal(t, 18.5, stored.Items[0].Price)
	assert.Equal(t, "old.jpg", stored.Items[0].Image)
}

func TestAdvanceStatus(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	orders := NewOrderService(stores)
	ctx := context.Background()

	order, err := orders.Checkout(ctx, userID, checkoutFor(
		CheckoutItem{ProductID: 1, Quantity: 1, Name: "Saffron", Price: 10},
	))
	require.NoError(t, err)

	advanced, err := orders.AdvanceStatus(ctx, order.Code, models.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, advanced.Status)

	// backwards is rejected
	_, err = orders.AdvanceStatus(ctx, order.Code, models.StatusConfirmed)
	assert.True(t, models.IsInvalidTransition(err))

	// cancellation must go through Cancel, not AdvanceStatus
	_, err = orders.AdvanceStatus(ctx, order.Code, models.StatusCancelled)
	assert.True(t, models.IsInvalidTransition(err))

	_, err = orders.AdvanceStatus(ctx, "SAF-NOPE", models.StatusShipped)
	assert.True(t, models.IsNotFound(err))
}
