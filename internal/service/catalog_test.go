package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
)

func TestCatalogCreateValidation(t *testing.T) {
	stores, _ := newTestStores(t)
	svc := NewCatalogService(stores)
	ctx := context.Background()

	cases := []struct {
		name    string
		product models.Product
	}{
		{"zero id", models.Product{ID: 0, Name: "A", Price: 1, Stock: 1}},
		{"empty name", models.Product{ID: 1, Name: "", Price: 1, Stock: 1}},
		{"negative price", models.Product{ID: 1, Name: "A", Price: -1, Stock: 1}},
		{"negative stock", models.Product{ID: 1, Name: "A", Price: 1, Stock: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.product)
			assert.True(t, models.IsValidation(err), "got %v", err)
		})
	}
}

func TestCatalogCreateResetsAggregates(t *testing.T) {
	stores, _ := newTestStores(t)
	svc := NewCatalogService(stores)

	created, err := svc.Create(context.Background(), models.Product{
		ID: 1, Name: "Saffron", Price: 10, Stock: 5, Rating: 4.9, ReviewCount: 12,
	})
	require.NoError(t, err)
	assert.Zero(t, created.Rating)
	assert.Zero(t, created.ReviewCount)
}

func TestCatalogCreateDuplicateID(t *testing.T) {
	stores, _ := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	svc := NewCatalogService(stores)

	_, err := svc.Create(context.Background(), models.Product{ID: 1, Name: "Other", Price: 5, Stock: 1})
	assert.True(t, models.IsConflict(err))
}

func TestCatalogPatch(t *testing.T) {
	stores, _ := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	svc := NewCatalogService(stores)
	ctx := context.Background()

	price := 12.5
	stock := 8
	updated, err := svc.Update(ctx, 1, ProductPatch{Price: &price, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, "Saffron", updated.Name, "unpatched fields keep their value")
	assert.Equal(t, 12.5, updated.Price)
	assert.Equal(t, 8, updated.Stock)

	bad := -1.0
	_, err = svc.Update(ctx, 1, ProductPatch{Price: &bad})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Update(ctx, 99, ProductPatch{Price: &price})
	assert.True(t, models.IsNotFound(err))
}

func TestCatalogDelete(t *testing.T) {
	stores, _ := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Price: 10, Stock: 5})
	svc := NewCatalogService(stores)
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 1))
	err := svc.Delete(ctx, 1)
	assert.True(t, models.IsNotFound(err))
}
