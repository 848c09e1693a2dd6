package shipping

import (
	"context"
	"errors"
	"log"
	"strings"
)

// ConfigStore is the lookup the resolver depends on.
type ConfigStore interface {
	FindActiveByCountry(ctx context.Context, country string) (*Config, error)
}

// Resolver computes the shipping charge for an order subtotal. It fails open:
// a missing configuration or a lookup error means free shipping, never a
// blocked checkout.
type Resolver struct {
	Store ConfigStore
}

func (r *Resolver) Fee(ctx context.Context, subtotal int, country string) int {
	country = strings.TrimSpace(country)
	if country == "" {
		country = DefaultCountry
	}

	cfg, err := r.Store.FindActiveByCountry(ctx, country)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("shipping fee lookup (%s): %v", country, err)
		}
		return 0
	}
	if subtotal >= cfg.FreeShippingThreshold {
		return 0
	}
	return cfg.Fee
}
