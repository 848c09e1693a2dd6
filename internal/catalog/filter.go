package catalog

import (
	"fmt"
	"strings"
)

// Sort keys accepted by List.
const (
	SortCreatedAt = "createdAt"
	SortPrice     = "price"
	SortTitle     = "title"
)

// Filter enumerates the optional listing criteria. A zero Filter matches
// everything; the public listing pins Active to true.
type Filter struct {
	Category   string
	Brand      string
	OnSale     *bool
	BestSeller *bool
	Active     *bool
	MinPrice   *int // on sale_price
	MaxPrice   *int
	Colors     []string
	Sizes      []string

	SortBy  string // createdAt | price | title
	SortAsc bool
	Page    int
	Limit   int
}

// Normalize clamps pagination and sort to their allowed ranges.
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	switch f.SortBy {
	case SortPrice, SortTitle:
	default:
		f.SortBy = SortCreatedAt
	}
}

// whereClause builds the SQL predicate and args from the enumerated criteria.
func (f *Filter) whereClause() (string, []any) {
	var conds []string
	var args []any
	next := func() string { return fmt.Sprintf("$%d", len(args)+1) }

	if f.Category != "" {
		conds = append(conds, "category = "+next())
		args = append(args, f.Category)
	}
	if f.Brand != "" {
		conds = append(conds, "brand = "+next())
		args = append(args, f.Brand)
	}
	if f.OnSale != nil {
		conds = append(conds, "is_on_sale = "+next())
		args = append(args, *f.OnSale)
	}
	if f.BestSeller != nil {
		conds = append(conds, "is_best_seller = "+next())
		args = append(args, *f.BestSeller)
	}
	if f.Active != nil {
		conds = append(conds, "is_active = "+next())
		args = append(args, *f.Active)
	}
	if f.MinPrice != nil {
		conds = append(conds, "sale_price >= "+next())
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		conds = append(conds, "sale_price <= "+next())
		args = append(args, *f.MaxPrice)
	}
	if len(f.Colors) > 0 {
		conds = append(conds, "colors && "+next())
		args = append(args, f.Colors)
	}
	if len(f.Sizes) > 0 {
		conds = append(conds, "sizes && "+next())
		args = append(args, f.Sizes)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f *Filter) orderClause() string {
	col := "created_at"
	switch f.SortBy {
	case SortPrice:
		col = "sale_price"
	case SortTitle:
		col = "title"
	}
	dir := "DESC"
	if f.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir
}
