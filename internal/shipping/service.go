package shipping

import (
	"context"
	"errors"
	"strings"

	"github.com/dastkar/rugshop/internal/apperr"
)

// Store is the admin-facing persistence surface.
type Store interface {
	ConfigStore
	FindByCountry(ctx context.Context, country string) (*Config, error)
	UpsertByCountry(ctx context.Context, country string, threshold, fee int, active bool) (*Config, bool, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

type UpsertInput struct {
	Country               string
	FreeShippingThreshold *int
	Fee                   *int
	IsActive              *bool
}

// Upsert creates or updates the fee configuration for a country. Returns the
// config and whether it was newly created.
func (s *Service) Upsert(ctx context.Context, in UpsertInput) (*Config, bool, error) {
	if in.FreeShippingThreshold == nil || in.Fee == nil || strings.TrimSpace(in.Country) == "" {
		return nil, false, apperr.Validation("freeShippingThreshold, shippingFee, and country are required")
	}
	if *in.FreeShippingThreshold < 0 {
		return nil, false, apperr.Validation("freeShippingThreshold must be a non-negative number")
	}
	if *in.Fee < 0 {
		return nil, false, apperr.Validation("shippingFee must be a non-negative number")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	cfg, created, err := s.store.UpsertByCountry(ctx, strings.TrimSpace(in.Country),
		*in.FreeShippingThreshold, *in.Fee, active)
	if err != nil {
		return nil, false, apperr.Internal("Failed to create/update shipping fee", err)
	}
	return cfg, created, nil
}

func (s *Service) Get(ctx context.Context, country string) (*Config, error) {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}
	cfg, err := s.store.FindByCountry(ctx, country)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Shipping fee configuration not found for country: %s", country)
		}
		return nil, apperr.Internal("Failed to fetch shipping fee", err)
	}
	return cfg, nil
}
