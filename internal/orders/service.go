package orders

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/dastkar/rugshop/internal/apperr"
	"github.com/dastkar/rugshop/internal/catalog"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the order persistence surface; *Repo satisfies it.
type Store interface {
	CreateWithStockDecrements(ctx context.Context, o *Order, decs []StockDecrement) error
	GetByID(ctx context.Context, id string) (*Order, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (*Order, error)
	ListByEmail(ctx context.Context, email string) ([]*Order, error)
	List(ctx context.Context, f ListFilter) ([]*Order, int, error)
	Update(ctx context.Context, o *Order) error
}

// Catalog is the slice of the catalog store checkout needs.
type Catalog interface {
	GetMany(ctx context.Context, ids []string) ([]*catalog.Product, error)
}

// FeeResolver computes the shipping charge from an order subtotal. It never
// fails; a missing configuration means free shipping.
type FeeResolver interface {
	Fee(ctx context.Context, subtotal int, country string) int
}

// Notifier delivers order notifications. Both calls are fire-and-forget:
// implementations swallow and log failures, checkout success never depends
// on them.
type Notifier interface {
	OrderCreated(o *Order)
	OrderDelivered(o *Order)
}

type Service struct {
	store    Store
	catalog  Catalog
	fees     FeeResolver
	notifier Notifier

	currency       string
	defaultCountry string
}

func NewService(store Store, cat Catalog, fees FeeResolver, n Notifier, currency, defaultCountry string) *Service {
	return &Service{
		store:          store,
		catalog:        cat,
		fees:           fees,
		notifier:       n,
		currency:       currency,
		defaultCountry: defaultCountry,
	}
}

type ItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

type CreateInput struct {
	Email       string      `json:"email"`
	Username    string      `json:"username"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Address     string      `json:"address,omitempty"`
	Country     string      `json:"country,omitempty"`
	City        string      `json:"city,omitempty"`
	PostalCode  string      `json:"postalCode,omitempty"`
	Items       []ItemInput `json:"items"`
}

// Create runs the checkout pipeline: validate, batch-fetch, snapshot lines,
// resolve shipping, persist order + stock decrements in one transaction,
// then notify best-effort.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, apperr.Validation("Email and username are required")
	}
	if !emailRe.MatchString(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	if len(in.Items) == 0 {
		return nil, apperr.Validation("At least one product in items[] is required to create an order")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return nil, apperr.Validation("Invalid product ID in items")
		}
		if it.Quantity < 1 {
			return nil, apperr.Validation("Quantity must be at least 1 for all items")
		}
	}

	ids := make([]string, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.catalog.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to create order", err)
	}
	byID := make(map[string]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]LineItem, 0, len(in.Items))
	decs := make([]StockDecrement, 0, len(in.Items))
	subtotal := 0
	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, apperr.NotFound("Product not found for ID: %s", it.ProductID)
		}
		if !p.IsActive {
			return nil, apperr.Validation("Product is not available: %s", p.Title)
		}
		if p.Stock < 0 {
			return nil, apperr.Validation("Product stock information is not available: %s", p.Title)
		}
		if it.Quantity > p.Stock {
			return nil, apperr.Conflict("Insufficient stock for %q. Only %d items available.", p.Title, p.Stock)
		}

		size := strings.TrimSpace(it.Size)
		if size != "" {
			if len(p.Sizes) == 0 {
				return nil, apperr.Validation("Selected product %q does not have size options", p.Title)
			}
			if !p.HasSize(size) {
				return nil, apperr.Validation("Invalid size %q for product %q", size, p.Title)
			}
		}

		unitPrice := catalog.EffectivePrice(p)
		lineTotal := unitPrice * it.Quantity
		subtotal += lineTotal
		lines = append(lines, LineItem{
			ProductID: p.ID,
			Title:     p.Title,
			Image:     p.PrimaryImage(),
			Size:      size,
			Quantity:  it.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		decs = append(decs, StockDecrement{ProductID: p.ID, Quantity: it.Quantity})
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = s.defaultCountry
	}
	fee := s.fees.Fee(ctx, subtotal, country)

	o := &Order{
		ID:            uuid.NewString(),
		Email:         email,
		Username:      username,
		PhoneNumber:   strings.TrimSpace(in.PhoneNumber),
		Address:       strings.TrimSpace(in.Address),
		Country:       country,
		City:          strings.TrimSpace(in.City),
		PostalCode:    strings.TrimSpace(in.PostalCode),
		Items:         lines,
		TotalPrice:    subtotal + fee,
		ShippingFee:   fee,
		Status:        StatusConfirm,
		PaymentMethod: PaymentPayAtLocation,
		Currency:      s.currency,
	}

	if err := s.store.CreateWithStockDecrements(ctx, o, decs); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			// a concurrent checkout won the race for the last units
			return nil, apperr.Conflict("Insufficient stock. Please review your order and try again.")
		}
		return nil, apperr.Internal("Failed to create order", err)
	}

	s.notifier.OrderCreated(o)
	return o, nil
}

// Cancel is the guest-facing cancellation. The email match substitutes for
// authentication; only orders still in confirm can be cancelled. Stock is
// not restored.
func (s *Service) Cancel(ctx context.Context, id, email string, reason *string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Invalid order ID")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if !emailRe.MatchString(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if trimmed == "" {
			return nil, apperr.Validation("Cancel reason cannot be empty")
		}
		if len(trimmed) > 500 {
			return nil, apperr.Validation("Cancel reason cannot exceed 500 characters")
		}
	}

	o, err := s.store.FindByIDAndEmail(ctx, id, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("Failed to cancel order", err)
	}
	if o.Status != StatusConfirm {
		return nil, apperr.Conflict("Only confirmed orders can be cancelled")
	}

	o.Status = StatusCancelled
	if reason != nil {
		o.CancelReason = strings.TrimSpace(*reason)
	}
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Internal("Failed to cancel order", err)
	}
	return o, nil
}

type UpdateStatusInput struct {
	Status         Status
	CancelReason   string
	TrackingNumber string
}

// UpdateStatus is the admin transition. Terminal orders (completed,
// cancelled) accept only the refund escape; cancelled requires a reason,
// delivered requires a tracking number and triggers the delivery
// notification.
func (s *Service) UpdateStatus(ctx context.Context, id string, in UpdateStatusInput) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Invalid order ID")
	}
	if !IsAdminStatus(in.Status) {
		return nil, apperr.Validation("Invalid order status provided. Allowed statuses: confirm, failed, cancelled, completed, delivered, refund")
	}

	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("Failed to update order status", err)
	}

	if !CanTransition(o.Status, in.Status) {
		return nil, apperr.Conflict("Cannot change status. Order is already %s.", o.Status)
	}

	if in.Status == StatusCancelled {
		reason := strings.TrimSpace(in.CancelReason)
		if reason == "" {
			return nil, apperr.Validation("Cancel reason is required when cancelling an order")
		}
		if len(reason) > 500 {
			return nil, apperr.Validation("Cancel reason cannot exceed 500 characters")
		}
		o.CancelReason = reason
	}
	if in.Status == StatusDelivered {
		tracking := strings.TrimSpace(in.TrackingNumber)
		if tracking == "" {
			return nil, apperr.Validation("Tracking number is required when marking order as delivered")
		}
		if len(tracking) > 100 {
			return nil, apperr.Validation("Tracking number cannot exceed 100 characters")
		}
		o.TrackingNumber = tracking
	}

	o.Status = in.Status
	if err := s.store.Update(ctx, o); err != nil {
		return nil, apperr.Internal("Failed to update order status", err)
	}

	if in.Status == StatusDelivered {
		s.notifier.OrderDelivered(o)
	}
	return o, nil
}

// ListByEmail returns a customer's orders, newest first.
func (s *Service) ListByEmail(ctx context.Context, email string) ([]*Order, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}
	if !emailRe.MatchString(email) {
		return nil, apperr.Validation("Invalid email format")
	}
	out, err := s.store.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch orders", err)
	}
	return out, nil
}

// AdminList applies the typed filter with pagination.
func (s *Service) AdminList(ctx context.Context, f ListFilter) ([]*Order, int, error) {
	if f.Email != "" {
		f.Email = strings.ToLower(strings.TrimSpace(f.Email))
		if !emailRe.MatchString(f.Email) {
			return nil, 0, apperr.Validation("Invalid email filter provided")
		}
	}
	if f.Status != "" && !isKnownStatus(f.Status) {
		return nil, 0, apperr.Validation("Invalid status filter provided")
	}
	if f.PaymentMethod != "" && f.PaymentMethod != PaymentOnline && f.PaymentMethod != PaymentPayAtLocation {
		return nil, 0, apperr.Validation("Invalid payment method filter provided")
	}
	f.Normalize()
	out, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, apperr.Internal("Failed to fetch orders", err)
	}
	return out, total, nil
}

func (s *Service) AdminGet(ctx context.Context, id string) (*Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.Validation("Invalid order ID")
	}
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, apperr.Internal("Failed to fetch order details", err)
	}
	return o, nil
}

func isKnownStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirm, StatusFailed, StatusCancelled,
		StatusCompleted, StatusDelivered, StatusRefund:
		return true
	}
	return false
}
