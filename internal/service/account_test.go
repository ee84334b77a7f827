package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewAccountService(store.NewMemory())
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "Asha@Example.com", "999", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email, "email is normalized")
	assert.Empty(t, user.Password, "password hash must not leak")

	// duplicate email
	_, err = svc.Register(ctx, "Other", "asha@example.com", "", "secret123")
	assert.True(t, models.IsConflict(err))

	authed, err := svc.Authenticate(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.Empty(t, authed.Password)

	_, err = svc.Authenticate(ctx, "asha@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfilePartial(t *testing.T) {
	stores, userID := newTestStores(t)
	svc := NewAccountService(stores)
	ctx := context.Background()

	phone := "12345"
	updated, err := svc.UpdateProfile(ctx, userID, ProfilePatch{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.Name, "unpatched fields keep their value")
	assert.Equal(t, "12345", updated.Phone)
}

func TestWishlist(t *testing.T) {
	stores, userID := newTestStores(t, models.Product{ID: 1, Name: "Saffron", Stock: 5})
	svc := NewAccountService(stores)
	ctx := context.Background()

	w, err := svc.Wishlist(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, w.ProductIDs)

	w, err = svc.AddToWishlist(ctx, userID, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, w.ProductIDs)

	// adding again is a no-op
	w, err = svc.AddToWishlist(ctx, userID, 1)
	require.NoError(t, err)
	assert.Len(t, w.ProductIDs, 1)

	_, err = svc.AddToWishlist(ctx, userID, 99)
	assert.True(t, models.IsNotFound(err))

	w, err = svc.RemoveFromWishlist(ctx, userID, 1)
	require.NoError(t, err)
	assert.Empty(t, w.ProductIDs)

	// removing a product that is not on the list is a no-op
	_, err = svc.RemoveFromWishlist(ctx, userID, 1)
	require.NoError(t, err)
}
