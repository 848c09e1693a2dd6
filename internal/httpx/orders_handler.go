package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/dastkar/rugshop/internal/orders"
	"github.com/dastkar/rugshop/internal/redisx"
)

type OrdersHandler struct {
	Svc   *orders.Service
	Redis *redis.Client
}

func (h *OrdersHandler) Register(r chi.Router, admin *AdminAuth) {
	r.Post("/api/orders", h.create)
	r.Get("/api/orders", h.listByEmail)
	r.Patch("/api/orders/{id}/cancel", h.cancel)

	r.Group(func(r chi.Router) {
		r.Use(admin.Middleware)
		r.Get("/api/admin/orders", h.adminList)
		r.Get("/api/admin/orders/{id}", h.adminGet)
		r.Patch("/api/admin/orders/{id}/status", h.updateStatus)
	})
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req orders.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := h.Svc.Create(ctx, req)
	if err != nil {
		fail(w, err, "Failed to create order")
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, http.StatusCreated, map[string]any{"message": "Order created successfully", "order": o})
}

func (h *OrdersHandler) listByEmail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, err := h.Svc.ListByEmail(ctx, r.URL.Query().Get("email"))
	if err != nil {
		fail(w, err, "Failed to fetch orders")
		return
	}
	if out == nil {
		out = []*orders.Order{}
	}
	ok(w, http.StatusOK, map[string]any{"orders": out})
}

type cancelOrderReq struct {
	CancelReason *string `json:"cancelReason"`
}

func (h *OrdersHandler) cancel(w http.ResponseWriter, r *http.Request) {
	var req cancelOrderReq
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			failMsg(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.Cancel(ctx, chi.URLParam(r, "id"), r.URL.Query().Get("email"), req.CancelReason)
	if err != nil {
		fail(w, err, "Failed to cancel order")
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, http.StatusOK, map[string]any{
		"message": "Order cancelled successfully",
		"order": map[string]any{
			"id":           o.ID,
			"status":       o.Status,
			"cancelReason": orEmptyNil(o.CancelReason),
			"updatedAt":    o.UpdatedAt,
		},
	})
}

func (h *OrdersHandler) adminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := orders.ListFilter{
		Email:         q.Get("email"),
		Status:        orders.Status(q.Get("status")),
		PaymentMethod: orders.PaymentMethod(q.Get("paymentMethod")),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	out, total, err := h.Svc.AdminList(ctx, f)
	if err != nil {
		fail(w, err, "Failed to fetch orders")
		return
	}
	if out == nil {
		out = []*orders.Order{}
	}
	f.Normalize()
	ok(w, http.StatusOK, map[string]any{
		"orders":     out,
		"pagination": pagination(f.Page, f.Limit, total),
	})
}

func (h *OrdersHandler) adminGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Svc.AdminGet(ctx, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err, "Failed to fetch order details")
		return
	}
	ok(w, http.StatusOK, map[string]any{"order": o})
}

type updateStatusReq struct {
	Status         string `json:"status"`
	CancelReason   string `json:"cancelReason"`
	TrackingNumber string `json:"trackingNumber"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Svc.UpdateStatus(ctx, chi.URLParam(r, "id"), orders.UpdateStatusInput{
		Status:         orders.Status(req.Status),
		CancelReason:   req.CancelReason,
		TrackingNumber: req.TrackingNumber,
	})
	if err != nil {
		fail(w, err, "Failed to update order status")
		return
	}
	h.cacheStatus(ctx, o)
	ok(w, http.StatusOK, map[string]any{
		"message": "Order status updated successfully",
		"order": map[string]any{
			"id":             o.ID,
			"status":         o.Status,
			"cancelReason":   orEmptyNil(o.CancelReason),
			"trackingNumber": orEmptyNil(o.TrackingNumber),
			"updatedAt":      o.UpdatedAt,
		},
	})
}

// cacheStatus refreshes the Redis status shortcut; a cache failure is not a
// request failure.
func (h *OrdersHandler) cacheStatus(ctx context.Context, o *orders.Order) {
	if h.Redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	body, _ := json.Marshal(map[string]any{"status": o.Status})
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
}

func pagination(page, limit, total int) map[string]any {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return map[string]any{"page": page, "limit": limit, "total": total, "pages": pages}
}

func orEmptyNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
