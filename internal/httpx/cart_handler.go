package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dastkar/rugshop/internal/cart"
)

type CartHandler struct {
	Svc *cart.Service
}

func (h *CartHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(WithSession)
		r.Get("/api/cart", h.get)
		r.Post("/api/cart", h.add)
		r.Put("/api/cart/item/{cartItemId}", h.updateItem)
		r.Delete("/api/cart/item/{cartItemId}", h.removeItem)
		r.Delete("/api/cart", h.clear)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	view, err := h.Svc.Get(ctx, sessionID(r))
	if err != nil {
		fail(w, err, "Failed to fetch cart")
		return
	}
	ok(w, http.StatusOK, map[string]any{"cart": view})
}

type addToCartReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req addToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Add(ctx, sessionID(r), req.ProductID, req.Quantity, req.Size); err != nil {
		fail(w, err, "Failed to add product to cart")
		return
	}
	// deliberate minimal response on the write path
	ok(w, http.StatusOK, map[string]any{"message": "Product added to cart successfully"})
}

type updateCartItemReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateCartItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, removed, err := h.Svc.UpdateItem(ctx, sessionID(r), chi.URLParam(r, "cartItemId"), req.Quantity)
	if err != nil {
		fail(w, err, "Failed to update cart item")
		return
	}
	msg := "Cart item updated"
	if removed {
		msg = "Cart item removed (product no longer available)"
	}
	ok(w, http.StatusOK, map[string]any{"message": msg, "cart": view})
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	view, err := h.Svc.RemoveItem(ctx, sessionID(r), chi.URLParam(r, "cartItemId"))
	if err != nil {
		fail(w, err, "Failed to remove cart item")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Item removed from cart", "cart": view})
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid := sessionID(r)
	if err := h.Svc.Clear(ctx, sid); err != nil {
		fail(w, err, "Failed to clear cart")
		return
	}
	ok(w, http.StatusOK, map[string]any{
		"message": "Cart cleared successfully",
		"cart":    map[string]any{"sessionId": sid, "products": []any{}, "totalPrice": 0},
	})
}
