package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastkar/rugshop/internal/apperr"
	"github.com/dastkar/rugshop/internal/catalog"
)

type memCartStore struct {
	carts map[string]*Cart
}

func newMemCartStore() *memCartStore { return &memCartStore{carts: map[string]*Cart{}} }

func (m *memCartStore) FindBySession(_ context.Context, sessionID string) (*Cart, error) {
	c, ok := m.carts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	return &cp, nil
}

func (m *memCartStore) Create(_ context.Context, c *Cart) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	m.carts[c.SessionID] = &cp
	return nil
}

func (m *memCartStore) Save(_ context.Context, c *Cart) error {
	if _, ok := m.carts[c.SessionID]; !ok {
		return ErrNotFound
	}
	cp := *c
	cp.Items = append([]Item(nil), c.Items...)
	m.carts[c.SessionID] = &cp
	return nil
}

func (m *memCartStore) DeleteBySession(_ context.Context, sessionID string) error {
	if _, ok := m.carts[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.carts, sessionID)
	return nil
}

type fakeCatalog struct {
	products map[string]*catalog.Product
}

func (f *fakeCatalog) GetByID(_ context.Context, id string) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) GetMany(_ context.Context, ids []string) ([]*catalog.Product, error) {
	seen := map[string]bool{}
	var out []*catalog.Product
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p, ok := f.products[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func rug(id string, price, stock int) *catalog.Product {
	return &catalog.Product{
		ID:            id,
		Title:         "Rug " + id,
		Images:        []string{"https://cdn.example/" + id + ".jpg"},
		Sizes:         []string{"5x7", "8x10"},
		OriginalPrice: price,
		Stock:         stock,
		IsActive:      true,
	}
}

func newTestCart(t *testing.T) (*Service, *memCartStore, *fakeCatalog) {
	t.Helper()
	store := newMemCartStore()
	cat := &fakeCatalog{products: map[string]*catalog.Product{}}
	return NewService(store, cat), store, cat
}

func TestGetMissingCartIsEmptyView(t *testing.T) {
	svc, store, _ := newTestCart(t)

	v, err := svc.Get(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", v.SessionID)
	assert.Empty(t, v.Products)
	assert.Zero(t, v.TotalPrice)
	assert.Empty(t, store.carts, "a read never creates a cart")
}

func TestGetTwiceYieldsSameView(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	cat.products["p2"] = rug("p2", 5000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, "5x7"))
	require.NoError(t, svc.Add(ctx, "sess-1", "p2", 1, ""))

	first, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	afterFirst := *store.carts["sess-1"]

	second, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, *store.carts["sess-1"])
}

func TestGetTwiceAfterPruneYieldsSameView(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	cat.products["p2"] = rug("p2", 5000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 1, ""))
	require.NoError(t, svc.Add(ctx, "sess-1", "p2", 2, ""))
	delete(cat.products, "p2")

	// first read prunes and persists, second reads a stable cart
	first, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	afterFirst := *store.carts["sess-1"]

	second, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, *store.carts["sess-1"])
}

func TestAddCreatesCartAndComputesTotal(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)

	require.NoError(t, svc.Add(context.Background(), "sess-1", "p1", 2, "5x7"))

	c := store.carts["sess-1"]
	require.NotNil(t, c)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "5x7", c.Items[0].Size)
	assert.Equal(t, 20000, c.TotalPrice)
}

func TestAddMergesSameProductAndSize(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, "5x7"))
	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 3, "5x7"))

	c := store.carts["sess-1"]
	require.Len(t, c.Items, 1, "same product+size merges into one line")
	assert.Equal(t, 5, c.Items[0].Quantity)
	assert.Equal(t, 50000, c.TotalPrice)
}

func TestAddDifferentSizeIsNewLine(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, "5x7"))
	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 1, "8x10"))

	c := store.carts["sess-1"]
	assert.Len(t, c.Items, 2)
	assert.Equal(t, 30000, c.TotalPrice)
}

func TestAddStockCeilingSpansSizes(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 5)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 3, "5x7"))
	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, "8x10"))

	// 5 of 5 units already claimed across both sizes
	err := svc.Add(ctx, "sess-1", "p1", 1, "5x7")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Insufficient stock. Only 5 items available.", apperr.MessageOf(err, ""))

	c := store.carts["sess-1"]
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	assert.Equal(t, 5, total, "failed add leaves the cart untouched")
}

func TestAddValidation(t *testing.T) {
	svc, _, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	err := svc.Add(ctx, "sess-1", "", 1, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Add(ctx, "sess-1", "p1", 0, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Add(ctx, "sess-1", "p1", MaxQuantity+1, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.Add(ctx, "sess-1", "missing", 1, "")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.Add(ctx, "sess-1", "p1", 1, "9x12")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	cat.products["p1"].IsActive = false
	err = svc.Add(ctx, "sess-1", "p1", 1, "")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRejectedFirstAddLeavesNoCart(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 2)
	ctx := context.Background()

	err := svc.Add(ctx, "sess-1", "p1", 3, "")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Empty(t, store.carts, "a rejected first add must not create an empty cart")

	err = svc.Clear(ctx, "sess-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetPrunesDeadProducts(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	cat.products["p2"] = rug("p2", 5000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 1, ""))
	require.NoError(t, svc.Add(ctx, "sess-1", "p2", 2, ""))

	delete(cat.products, "p2")

	v, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, v.Products, 1)
	assert.Equal(t, "p1", v.Products[0].ProductID)
	assert.Equal(t, 10000, v.TotalPrice)

	// pruning is persisted
	c := store.carts["sess-1"]
	assert.Len(t, c.Items, 1)
	assert.Equal(t, 10000, c.TotalPrice)
}

func TestGetUsesCurrentEffectivePrice(t *testing.T) {
	svc, _, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, ""))

	// sale starts after the item is in the cart
	cat.products["p1"].IsOnSale = true
	cat.products["p1"].SalePrice = 8000

	v, err := svc.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 16000, v.TotalPrice)
	assert.Equal(t, 8000, v.Products[0].Product.CurrentPrice)
}

func TestUpdateItem(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, ""))
	itemID := store.carts["sess-1"].Items[0].ID

	v, removed, err := svc.UpdateItem(ctx, "sess-1", itemID, 5)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 5, v.Products[0].Quantity)
	assert.Equal(t, 50000, v.TotalPrice)

	_, _, err = svc.UpdateItem(ctx, "sess-1", itemID, 11)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, _, err = svc.UpdateItem(ctx, "sess-1", "cart_item_missing", 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, _, err = svc.UpdateItem(ctx, "missing-session", itemID, 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateItemRemovesDeadLine(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 2, ""))
	itemID := store.carts["sess-1"].Items[0].ID

	delete(cat.products, "p1")

	v, removed, err := svc.UpdateItem(ctx, "sess-1", itemID, 5)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, v.Products)
	assert.Zero(t, v.TotalPrice)
	assert.Empty(t, store.carts["sess-1"].Items)
}

func TestRemoveItem(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	cat.products["p2"] = rug("p2", 5000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 1, ""))
	require.NoError(t, svc.Add(ctx, "sess-1", "p2", 1, ""))
	itemID := store.carts["sess-1"].Items[0].ID

	v, err := svc.RemoveItem(ctx, "sess-1", itemID)
	require.NoError(t, err)
	require.Len(t, v.Products, 1)
	assert.Equal(t, "p2", v.Products[0].ProductID)
	assert.Equal(t, 5000, v.TotalPrice)

	_, err = svc.RemoveItem(ctx, "sess-1", itemID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestClear(t *testing.T) {
	svc, store, cat := newTestCart(t)
	cat.products["p1"] = rug("p1", 10000, 10)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "sess-1", "p1", 1, ""))
	require.NoError(t, svc.Clear(ctx, "sess-1"))
	assert.Empty(t, store.carts)

	err := svc.Clear(ctx, "sess-1")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
