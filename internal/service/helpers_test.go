package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

func newTestStores(t *testing.T, products ...models.Product) (store.Stores, primitive.ObjectID) {
	t.Helper()
	stores := store.NewMemory()
	ctx := context.Background()
	for _, p := range products {
		require.NoError(t, stores.Products.Create(ctx, p))
	}
	user, err := stores.Users.Create(ctx, models.User{Name: "Asha", Email: "asha@example.com"})
	require.NoError(t, err)
	return stores, user.ID
}

func productStock(t *testing.T, stores store.Stores, id int64) int {
	t.Helper()
	p, err := stores.Products.Get(context.Background(), id)
	require.NoError(t, err)
	return p.Stock
}
