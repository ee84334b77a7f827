package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/store"
)

// ProductPatch is a partial product update: only non-nil fields are
// applied. Rating aggregates are owned by the review pipeline and cannot be
// patched.
type ProductPatch struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Description *string  `json:"description"`
	Stock       *int     `json:"stock"`
}

// CatalogService handles catalog reads and the admin product lifecycle.
type CatalogService struct {
	stores store.Stores
}

func NewCatalogService(s store.Stores) *CatalogService {
	return &CatalogService{stores: s}
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.stores.Products.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id int64) (models.Product, error) {
	return s.stores.Products.Get(ctx, id)
}

// Create adds a catalog entry. The numeric id is chosen by the caller and
// must be unused; rating aggregates start at zero regardless of input.
func (s *CatalogService) Create(ctx context.Context, p models.Product) (models.Product, error) {
	if p.ID <= 0 {
		return models.Product{}, models.NewValidationError("id", "must be a positive integer")
	}
	if p.Name == "" {
		return models.Product{}, models.NewValidationError("name", "cannot be empty")
	}
	if p.Price < 0 {
		return models.Product{}, models.NewValidationError("price", "must be non-negative")
	}
	if p.Stock < 0 {
		return models.Product{}, models.NewValidationError("stock", "must be non-negative")
	}
	p.Rating = 0
	p.ReviewCount = 0
	if err := s.stores.Products.Create(ctx, p); err != nil {
		return models.Product{}, err
	}
	log.Info().Int64("productId", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

// Update applies a partial update to a product.
func (s *CatalogService) Update(ctx context.Context, id int64, patch ProductPatch) (models.Product, error) {
	p, err := s.stores.Products.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if patch.Name != nil {
		if *patch.Name == "" {
			return models.Product{}, models.NewValidationError("name", "cannot be empty")
		}
		p.Name = *patch.Name
	}
	if patch.Price != nil {
		if *patch.Price < 0 {
			return models.Product{}, models.NewValidationError("price", "must be non-negative")
		}
		p.Price = *patch.Price
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Stock != nil {
		if *patch.Stock < 0 {
			return models.Product{}, models.NewValidationError("stock", "must be non-negative")
		}
		p.Stock = *patch.Stock
	}
	if err := s.stores.Products.Update(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Delete removes a product from the catalog. Carts referencing it are
// repaired lazily on their next read; order snapshots are unaffected.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	if err := s.stores.Products.Delete(ctx, id); err != nil {
		return err
	}
	log.Info().Int64("productId", id).Msg("product deleted")
	return nil
}
