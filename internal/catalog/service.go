package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dastkar/rugshop/internal/apperr"
)

// Store is what the catalog service needs from persistence. *Repo satisfies
// it; tests use an in-memory implementation.
type Store interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetMany(ctx context.Context, ids []string) ([]*Product, error)
	List(ctx context.Context, f Filter) ([]*Product, int, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

type CreateInput struct {
	Title           string
	Brand           string
	Category        string
	Description     string
	Images          []string
	Colors          []string
	Sizes           []string
	OriginalPrice   int
	DiscountPercent int
	IsOnSale        bool
	IsBestSeller    bool
	Stock           int
	IsActive        *bool
}

// UpdateInput carries only the fields the admin sent; nil means unchanged.
type UpdateInput struct {
	Title           *string
	Brand           *string
	Category        *string
	Description     *string
	Images          []string
	Colors          []string
	Sizes           []string
	OriginalPrice   *int
	DiscountPercent *int
	IsOnSale        *bool
	IsBestSeller    *bool
	Stock           *int
	IsActive        *bool
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Product, error) {
	title := strings.TrimSpace(in.Title)
	brand := strings.TrimSpace(in.Brand)
	category := strings.TrimSpace(in.Category)
	if title == "" || brand == "" || category == "" {
		return nil, apperr.Validation("Title, brand and category are required")
	}
	if len(in.Images) == 0 || len(in.Images) > 5 {
		return nil, apperr.Validation("Between 1 and 5 images are required")
	}
	if in.OriginalPrice < 0 {
		return nil, apperr.Validation("Original price must be a non-negative number")
	}
	if in.DiscountPercent < 0 || in.DiscountPercent > 100 {
		return nil, apperr.Validation("Discount percent must be between 0 and 100")
	}
	if in.Stock < 0 {
		return nil, apperr.Validation("Stock must be a non-negative number")
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p := &Product{
		ID:              uuid.NewString(),
		Title:           title,
		Brand:           brand,
		Category:        category,
		Description:     strings.TrimSpace(in.Description),
		Images:          in.Images,
		Colors:          in.Colors,
		Sizes:           in.Sizes,
		OriginalPrice:   in.OriginalPrice,
		DiscountPercent: in.DiscountPercent,
		SalePrice:       ComputeSalePrice(in.OriginalPrice, in.DiscountPercent),
		IsOnSale:        in.IsOnSale,
		IsBestSeller:    in.IsBestSeller,
		Stock:           in.Stock,
		IsActive:        active,
	}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, apperr.Internal("Failed to create rug", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Rug not found")
		}
		return nil, apperr.Internal("Failed to update rug", err)
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("Title cannot be empty")
		}
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Brand != nil {
		p.Brand = strings.TrimSpace(*in.Brand)
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Images != nil {
		if len(in.Images) == 0 || len(in.Images) > 5 {
			return nil, apperr.Validation("Between 1 and 5 images are required")
		}
		p.Images = in.Images
	}
	if in.Colors != nil {
		p.Colors = in.Colors
	}
	if in.Sizes != nil {
		p.Sizes = in.Sizes
	}
	if in.OriginalPrice != nil {
		if *in.OriginalPrice < 0 {
			return nil, apperr.Validation("Original price must be a non-negative number")
		}
		p.OriginalPrice = *in.OriginalPrice
	}
	if in.DiscountPercent != nil {
		if *in.DiscountPercent < 0 || *in.DiscountPercent > 100 {
			return nil, apperr.Validation("Discount percent must be between 0 and 100")
		}
		p.DiscountPercent = *in.DiscountPercent
	}
	if in.IsOnSale != nil {
		p.IsOnSale = *in.IsOnSale
	}
	if in.IsBestSeller != nil {
		p.IsBestSeller = *in.IsBestSeller
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, apperr.Validation("Stock must be a non-negative number")
		}
		p.Stock = *in.Stock
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}

	// Sale price always tracks the formula, never the stored value.
	p.SalePrice = ComputeSalePrice(p.OriginalPrice, p.DiscountPercent)

	if err := s.store.Update(ctx, p); err != nil {
		return nil, apperr.Internal("Failed to update rug", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("Rug not found")
		}
		return apperr.Internal("Failed to delete rug", err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Rug not found")
		}
		return nil, apperr.Internal("Failed to fetch rug", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Product, int, error) {
	f.Normalize()
	ps, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Internal("Failed to fetch rugs", err)
	}
	return ps, total, nil
}
