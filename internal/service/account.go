package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password, without distinguishing the two.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ProfilePatch is a partial profile update: only non-nil fields are
// applied.
type ProfilePatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// AccountService handles registration, login checks, profiles and
// wishlists.
type AccountService struct {
	stores store.Stores
}

func NewAccountService(s store.Stores) *AccountService {
	return &AccountService{stores: s}
}

// Register creates an account with a bcrypt-hashed password. The returned
// user has the password cleared.
func (s *AccountService) Register(ctx context.Context, name, email, phone, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.stores.Users.GetByEmail(ctx, email); err == nil {
		return models.User{}, models.NewConflictError("user", email)
	} else if !models.IsNotFound(err) {
		return models.User{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user, err := s.stores.Users.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: string(hashed),
	})
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// Authenticate resolves an email/password pair to the account, or
// ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.stores.Users.GetByEmail(ctx, email)
	if models.IsNotFound(err) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	user.Password = ""
	return user, nil
}

// Profile returns the account without its password hash.
func (s *AccountService) Profile(ctx context.Context, userID primitive.ObjectID) (models.User, error) {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile applies a partial update and returns the updated account.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, patch ProfilePatch) (models.User, error) {
	user, err := s.stores.Users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*patch.Email))
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if err := s.stores.Users.Update(ctx, user); err != nil {
		return models.User{}, err
	}
	user.Password = ""
	return user, nil
}

// Wishlist returns the user's wishlist, creating an empty one on first
// access like carts.
func (s *AccountService) Wishlist(ctx context.Context, userID primitive.ObjectID) (models.Wishlist, error) {
	w, err := s.stores.Wishlists.Get(ctx, userID)
	if models.IsNotFound(err) {
		w = models.Wishlist{UserID: userID, ProductIDs: []int64{}}
		if err := s.stores.Wishlists.Save(ctx, w); err != nil {
			return models.Wishlist{}, err
		}
		return w, nil
	}
	if err != nil {
		return models.Wishlist{}, err
	}
	return w, nil
}

// AddToWishlist saves a product for later. Adding a product already on the
// wishlist is a no-op.
func (s *AccountService) AddToWishlist(ctx context.Context, userID primitive.ObjectID, productID int64) (models.Wishlist, error) {
	if _, err := s.stores.Products.Get(ctx, productID); err != nil {
		return models.Wishlist{}, err
	}
	w, err := s.Wishlist(ctx, userID)
	if err != nil {
		return models.Wishlist{}, err
	}
	for _, id := range w.ProductIDs {
		if id == productID {
			return w, nil
		}
	}
	w.ProductIDs = append(w.ProductIDs, productID)
	if err := s.stores.Wishlists.Save(ctx, w); err != nil {
		return models.Wishlist{}, err
	}
	return w, nil
}

// RemoveFromWishlist drops a product from the wishlist; removing one that
// is not on it is a no-op.
func (s *AccountService) RemoveFromWishlist(ctx context.Context, userID primitive.ObjectID, productID int64) (models.Wishlist, error) {
	w, err := s.Wishlist(ctx, userID)
	if err != nil {
		return models.Wishlist{}, err
	}
	for i, id := range w.ProductIDs {
		if id == productID {
			w.ProductIDs = append(w.ProductIDs[:i], w.ProductIDs[i+1:]...)
			if err := s.stores.Wishlists.Save(ctx, w); err != nil {
				return models.Wishlist{}, err
			}
			break
		}
	}
	return w, nil
}
