package shipping

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastkar/rugshop/internal/apperr"
)

type memShippingStore struct {
	fakeConfigStore
}

func (m *memShippingStore) FindByCountry(_ context.Context, country string) (*Config, error) {
	cfg, ok := m.configs[country]
	if !ok {
		return nil, ErrNotFound
	}
	return cfg, nil
}

func (m *memShippingStore) UpsertByCountry(_ context.Context, country string, threshold, fee int, active bool) (*Config, bool, error) {
	_, existed := m.configs[country]
	cfg := &Config{ID: "cfg-" + country, Country: country, FreeShippingThreshold: threshold, Fee: fee, IsActive: active}
	m.configs[country] = cfg
	return cfg, !existed, nil
}

func newMemShippingStore() *memShippingStore {
	return &memShippingStore{fakeConfigStore{configs: map[string]*Config{}}}
}

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func TestServiceUpsert(t *testing.T) {
	svc := NewService(newMemShippingStore())
	ctx := context.Background()

	cfg, created, err := svc.Upsert(ctx, UpsertInput{
		Country:               " Pakistan ",
		FreeShippingThreshold: intp(20000),
		Fee:                   intp(500),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Pakistan", cfg.Country)
	assert.True(t, cfg.IsActive, "active defaults to true")

	cfg, created, err = svc.Upsert(ctx, UpsertInput{
		Country:               "Pakistan",
		FreeShippingThreshold: intp(30000),
		Fee:                   intp(700),
		IsActive:              boolp(false),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 700, cfg.Fee)
	assert.False(t, cfg.IsActive)
}

func TestServiceUpsertValidation(t *testing.T) {
	svc := NewService(newMemShippingStore())
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{Country: "Pakistan", Fee: intp(500)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = svc.Upsert(ctx, UpsertInput{Country: "Pakistan", FreeShippingThreshold: intp(-1), Fee: intp(500)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = svc.Upsert(ctx, UpsertInput{Country: "Pakistan", FreeShippingThreshold: intp(0), Fee: intp(-5)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestServiceGet(t *testing.T) {
	store := newMemShippingStore()
	svc := NewService(store)
	ctx := context.Background()

	_, _, err := svc.Upsert(ctx, UpsertInput{
		Country:               DefaultCountry,
		FreeShippingThreshold: intp(20000),
		Fee:                   intp(500),
	})
	require.NoError(t, err)

	cfg, err := svc.Get(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCountry, cfg.Country)

	_, err = svc.Get(ctx, "Atlantis")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.True(t, strings.Contains(apperr.MessageOf(err, ""), "Atlantis"))
}
