package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dastkar/rugshop/internal/catalog"
)

type CatalogHandler struct {
	Svc *catalog.Service
}

func (h *CatalogHandler) Register(r chi.Router, admin *AdminAuth) {
	r.Get("/api/rugs", h.list)
	r.Get("/api/rugs/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(admin.Middleware)
		r.Post("/api/admin/rugs", h.create)
		r.Put("/api/admin/rugs/{id}", h.update)
		r.Delete("/api/admin/rugs/{id}", h.delete)
	})
}

// list serves the public storefront listing; inactive rugs never show here.
func (h *CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	active := true
	f.Active = &active

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	ps, total, err := h.Svc.List(ctx, f)
	if err != nil {
		fail(w, err, "Failed to fetch rugs")
		return
	}
	if ps == nil {
		ps = []*catalog.Product{}
	}
	f.Normalize()
	ok(w, http.StatusOK, map[string]any{
		"rugs":       ps,
		"pagination": pagination(f.Page, f.Limit, total),
	})
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		fail(w, err, "Failed to fetch rug")
		return
	}
	ok(w, http.StatusOK, map[string]any{"rug": p})
}

type rugCreateReq struct {
	Title           string   `json:"title"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Images          []string `json:"images"`
	Colors          []string `json:"colors"`
	Sizes           []string `json:"sizes"`
	OriginalPrice   int      `json:"originalPrice"`
	DiscountPercent int      `json:"discountPercent"`
	IsOnSale        bool     `json:"isOnSale"`
	IsBestSeller    bool     `json:"isBestSeller"`
	Stock           int      `json:"stock"`
	IsActive        *bool    `json:"isActive"`
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req rugCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Svc.Create(ctx, catalog.CreateInput{
		Title:           req.Title,
		Brand:           req.Brand,
		Category:        req.Category,
		Description:     req.Description,
		Images:          req.Images,
		Colors:          req.Colors,
		Sizes:           req.Sizes,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		IsOnSale:        req.IsOnSale,
		IsBestSeller:    req.IsBestSeller,
		Stock:           req.Stock,
		IsActive:        req.IsActive,
	})
	if err != nil {
		fail(w, err, "Failed to create rug")
		return
	}
	ok(w, http.StatusCreated, map[string]any{"message": "Rug created successfully", "rug": p})
}

type rugUpdateReq struct {
	Title           *string  `json:"title"`
	Brand           *string  `json:"brand"`
	Category        *string  `json:"category"`
	Description     *string  `json:"description"`
	Images          []string `json:"images"`
	Colors          []string `json:"colors"`
	Sizes           []string `json:"sizes"`
	OriginalPrice   *int     `json:"originalPrice"`
	DiscountPercent *int     `json:"discountPercent"`
	IsOnSale        *bool    `json:"isOnSale"`
	IsBestSeller    *bool    `json:"isBestSeller"`
	Stock           *int     `json:"stock"`
	IsActive        *bool    `json:"isActive"`
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	var req rugUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failMsg(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	p, err := h.Svc.Update(ctx, chi.URLParam(r, "id"), catalog.UpdateInput{
		Title:           req.Title,
		Brand:           req.Brand,
		Category:        req.Category,
		Description:     req.Description,
		Images:          req.Images,
		Colors:          req.Colors,
		Sizes:           req.Sizes,
		OriginalPrice:   req.OriginalPrice,
		DiscountPercent: req.DiscountPercent,
		IsOnSale:        req.IsOnSale,
		IsBestSeller:    req.IsBestSeller,
		Stock:           req.Stock,
		IsActive:        req.IsActive,
	})
	if err != nil {
		fail(w, err, "Failed to update rug")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Rug updated successfully", "rug": p})
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		fail(w, err, "Failed to delete rug")
		return
	}
	ok(w, http.StatusOK, map[string]any{"message": "Rug deleted successfully"})
}

func parseFilter(r *http.Request) catalog.Filter {
	q := r.URL.Query()
	f := catalog.Filter{
		Category: q.Get("category"),
		Brand:    q.Get("brand"),
		Colors:   splitList(q.Get("colors")),
		Sizes:    splitList(q.Get("sizes")),
		SortBy:   q.Get("sortBy"),
		SortAsc:  q.Get("sortOrder") == "asc",
	}
	f.OnSale = parseBool(q.Get("isOnSale"))
	f.BestSeller = parseBool(q.Get("isBestSeller"))
	f.MinPrice = parseInt(q.Get("minPrice"))
	f.MaxPrice = parseInt(q.Get("maxPrice"))
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	return f
}

func parseBool(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
