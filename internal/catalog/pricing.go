package catalog

// EffectivePrice returns the price actually charged for a product right now:
// the sale price when the sale data is coherent, the original price
// otherwise. The three-way guard keeps a misconfigured sale (salePrice >=
// originalPrice, stale isOnSale flag, zero sale price) from ever changing
// what the customer pays.
func EffectivePrice(p *Product) int {
	if p.IsOnSale && p.SalePrice > 0 && p.SalePrice < p.OriginalPrice {
		return p.SalePrice
	}
	return p.OriginalPrice
}
