package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dastkar/rugshop/internal/shipping"
)

type ShippingHandler struct {
	Svc *shipping.Service
}

func (h *ShippingHandler) Register(r chi.Router, admin *AdminAuth) {
	r.Get("/api/shipping-fee", h.get)

	r.Group(func(r chi.Router) {
		r.Use(admin.Middleware)
		r.Post("/api/admin/shipping-fee", h.upsert)
	})
}

func (h *ShippingHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cfg, err := h.Svc.Get(ctx, r.URL.Query().Get("country"))
	if err != nil {
		fail(w, err, "Failed to fetch shipping fee")
		return
	}
	ok(w, http.StatusOK, map[string]any{"shippingFee": cfg})
}

type upsertShippingReq struct {
	Country               string `json:"country"`
	FreeShippingThreshold *int   `json:"freeShippingThreshold"`
	ShippingFee           *int   `json:"shippingFee"`
	IsActive              *bool  `json:"isActive"`
}

func (h *ShippingHandler) upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertShippingReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cfg, created, err := h.Svc.Upsert(ctx, shipping.UpsertInput{
		Country:               req.Country,
		FreeShippingThreshold: req.FreeShippingThreshold,
		Fee:                   req.ShippingFee,
		IsActive:              req.IsActive,
	})
	if err != nil {
		fail(w, err, "Failed to create/update shipping fee")
		return
	}
	code := http.StatusOK
	msg := "Shipping fee updated successfully"
	if created {
		code = http.StatusCreated
		msg = "Shipping fee created successfully"
	}
	ok(w, code, map[string]any{"message": msg, "shippingFee": cfg})
}
