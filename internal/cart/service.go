package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/dastkar/rugshop/internal/apperr"
	"github.com/dastkar/rugshop/internal/catalog"
)

// Store is the cart persistence surface; *Repo satisfies it.
type Store interface {
	FindBySession(ctx context.Context, sessionID string) (*Cart, error)
	Create(ctx context.Context, c *Cart) error
	Save(ctx context.Context, c *Cart) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

// Catalog is the slice of the catalog store the cart needs.
type Catalog interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
	GetMany(ctx context.Context, ids []string) ([]*catalog.Product, error)
}

// Service is the cart aggregate. Carts never reserve inventory: every stock
// check here reads the product's current stock, reservation happens at
// checkout only.
type Service struct {
	store   Store
	catalog Catalog
}

func NewService(store Store, cat Catalog) *Service {
	return &Service{store: store, catalog: cat}
}

// reconcile drops line items whose product is missing or inactive and
// recomputes the cart total against effective prices. It returns the live
// products keyed by id and whether anything was pruned. Persisting the
// result is the caller's job.
func (s *Service) reconcile(ctx context.Context, c *Cart) (map[string]*catalog.Product, bool, error) {
	live := map[string]*catalog.Product{}
	if len(c.Items) == 0 {
		c.TotalPrice = 0
		return live, false, nil
	}

	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, false, err
	}
	for _, p := range products {
		if p.IsActive {
			live[p.ID] = p
		}
	}

	kept := c.Items[:0]
	pruned := false
	total := 0
	for _, it := range c.Items {
		p, ok := live[it.ProductID]
		if !ok {
			pruned = true
			continue
		}
		kept = append(kept, it)
		total += catalog.EffectivePrice(p) * it.Quantity
	}
	c.Items = kept
	c.TotalPrice = total
	return live, pruned, nil
}

// Get returns the session's cart joined with live product details. A session
// without a cart gets an empty virtual cart and nothing is persisted.
func (s *Service) Get(ctx context.Context, sessionID string) (*View, error) {
	c, err := s.store.FindBySession(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return emptyView(sessionID), nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cart", err)
	}

	live, _, err := s.reconcile(ctx, c)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch cart", err)
	}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, apperr.Internal("Failed to fetch cart", err)
	}
	return formatView(c, live), nil
}

// Add puts quantity of (productID, size) into the cart, merging into an
// existing line with the same product and size. The stock ceiling applies to
// the total quantity of the product across all its size lines.
func (s *Service) Add(ctx context.Context, sessionID, productID string, quantity int, size string) error {
	if productID == "" {
		return apperr.Validation("Product ID is required")
	}
	if quantity < 1 || quantity > MaxQuantity {
		return apperr.Validation("Quantity must be between 1 and %d", MaxQuantity)
	}

	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return apperr.NotFound("Product not found")
		}
		return apperr.Internal("Failed to add product to cart", err)
	}
	if !p.IsActive {
		return apperr.Validation("Product is not available")
	}
	if p.Stock < 0 {
		return apperr.Validation("Product stock information is not available")
	}

	size = strings.TrimSpace(size)
	if size != "" {
		if len(p.Sizes) == 0 {
			return apperr.Validation("Selected product does not have size options")
		}
		if !p.HasSize(size) {
			return apperr.Validation("Invalid size for the selected product")
		}
	}

	// The cart document is only created once the add succeeds; a rejected
	// first add leaves no row behind.
	c, err := s.store.FindBySession(ctx, sessionID)
	created := false
	if errors.Is(err, ErrNotFound) {
		c = &Cart{SessionID: sessionID, Items: []Item{}}
		created = true
	} else if err != nil {
		return apperr.Internal("Failed to add product to cart", err)
	}

	if !created {
		if _, _, err := s.reconcile(ctx, c); err != nil {
			return apperr.Internal("Failed to add product to cart", err)
		}
	}

	// Quantity of this product already in the cart, across all sizes, and
	// the line holding the same size if one exists.
	existingTotal := 0
	sameIdx := -1
	for i, it := range c.Items {
		if it.ProductID != productID {
			continue
		}
		existingTotal += it.Quantity
		if it.Size == size {
			sameIdx = i
		}
	}

	var newTotal int
	if sameIdx != -1 {
		merged := c.Items[sameIdx].Quantity + quantity
		if merged > MaxQuantity {
			return apperr.Validation("Total quantity cannot exceed %d", MaxQuantity)
		}
		newTotal = existingTotal - c.Items[sameIdx].Quantity + merged
	} else {
		newTotal = existingTotal + quantity
	}
	if newTotal > p.Stock {
		return apperr.Conflict("Insufficient stock. Only %d items available.", p.Stock)
	}

	if sameIdx != -1 {
		c.Items[sameIdx].Quantity += quantity
	} else {
		c.Items = append(c.Items, Item{
			ID:        newItemID(),
			ProductID: productID,
			Quantity:  quantity,
			Size:      size,
		})
	}

	s.recomputeTotal(ctx, c)
	if created {
		if err := s.store.Create(ctx, c); err != nil {
			return apperr.Internal("Failed to add product to cart", err)
		}
		return nil
	}
	if err := s.store.Save(ctx, c); err != nil {
		return apperr.Internal("Failed to add product to cart", err)
	}
	return nil
}

// UpdateItem sets the absolute quantity of one line. When the line's product
// has been deleted or deactivated since it was added, the line is removed
// instead and removed=true is returned.
func (s *Service) UpdateItem(ctx context.Context, sessionID, cartItemID string, quantity int) (*View, bool, error) {
	if cartItemID == "" {
		return nil, false, apperr.Validation("Cart item ID is required")
	}
	if quantity < 1 || quantity > MaxQuantity {
		return nil, false, apperr.Validation("Quantity must be between 1 and %d", MaxQuantity)
	}

	c, err := s.store.FindBySession(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, apperr.NotFound("Cart not found")
	}
	if err != nil {
		return nil, false, apperr.Internal("Failed to update cart item", err)
	}

	// Locate before reconciling so a line whose product just died reports a
	// removal, not a 404.
	if indexOfItem(c.Items, cartItemID) == -1 {
		return nil, false, apperr.NotFound("Cart item not found")
	}

	live, _, err := s.reconcile(ctx, c)
	if err != nil {
		return nil, false, apperr.Internal("Failed to update cart item", err)
	}

	removed := false
	idx := indexOfItem(c.Items, cartItemID)
	if idx == -1 {
		removed = true // pruned: product deleted or deactivated
	} else {
		p := live[c.Items[idx].ProductID]
		if p.Stock < 0 {
			return nil, false, apperr.Validation("Product stock information is not available")
		}
		if quantity > p.Stock {
			return nil, false, apperr.Conflict("Insufficient stock. Only %d items available.", p.Stock)
		}
		c.Items[idx].Quantity = quantity
		s.recomputeTotal(ctx, c)
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, false, apperr.Internal("Failed to update cart item", err)
	}
	return formatView(c, live), removed, nil
}

// RemoveItem deletes one line by its cart item id.
func (s *Service) RemoveItem(ctx context.Context, sessionID, cartItemID string) (*View, error) {
	if cartItemID == "" {
		return nil, apperr.Validation("Cart item ID is required")
	}

	c, err := s.store.FindBySession(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Cart not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to remove cart item", err)
	}

	if indexOfItem(c.Items, cartItemID) == -1 {
		return nil, apperr.NotFound("Cart item not found")
	}

	live, _, err := s.reconcile(ctx, c)
	if err != nil {
		return nil, apperr.Internal("Failed to remove cart item", err)
	}
	if idx := indexOfItem(c.Items, cartItemID); idx != -1 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		s.recomputeTotal(ctx, c)
	}

	if err := s.store.Save(ctx, c); err != nil {
		return nil, apperr.Internal("Failed to remove cart item", err)
	}
	return formatView(c, live), nil
}

// Clear deletes the whole cart document.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.store.DeleteBySession(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Cart not found")
	}
	if err != nil {
		return apperr.Internal("Failed to clear cart", err)
	}
	return nil
}

// recomputeTotal re-sums the cart against current effective prices. Lookup
// errors leave the previous total in place; the next read fixes it.
func (s *Service) recomputeTotal(ctx context.Context, c *Cart) {
	if len(c.Items) == 0 {
		c.TotalPrice = 0
		return
	}
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return
	}
	live := map[string]*catalog.Product{}
	for _, p := range products {
		if p.IsActive {
			live[p.ID] = p
		}
	}
	total := 0
	for _, it := range c.Items {
		if p, ok := live[it.ProductID]; ok {
			total += catalog.EffectivePrice(p) * it.Quantity
		}
	}
	c.TotalPrice = total
}

func indexOfItem(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
