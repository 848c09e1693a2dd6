package cart

import (
	"time"

	"github.com/dastkar/rugshop/internal/catalog"
)

// View is the cart joined with live product details, the shape every read
// path returns.
type View struct {
	ID         string     `json:"id,omitempty"`
	SessionID  string     `json:"sessionId"`
	Products   []ItemView `json:"products"`
	TotalPrice int        `json:"totalPrice"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

type ItemView struct {
	ID        string       `json:"id"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Size      *string      `json:"size"`
	Available bool         `json:"available"`
	Stock     int          `json:"stock"`
	Product   *ProductView `json:"product"`
}

type ProductView struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Images        []string `json:"images"`
	OriginalPrice int      `json:"originalPrice"`
	SalePrice     int      `json:"salePrice"`
	IsOnSale      bool     `json:"isOnSale"`
	CurrentPrice  int      `json:"currentPrice"`
}

// emptyView is what Get returns when no cart document exists yet.
func emptyView(sessionID string) *View {
	return &View{SessionID: sessionID, Products: []ItemView{}}
}

// formatView joins the (already reconciled) cart with live product details.
// Reconciliation guarantees every remaining line has a live product.
func formatView(c *Cart, live map[string]*catalog.Product) *View {
	v := &View{
		ID:         c.ID,
		SessionID:  c.SessionID,
		Products:   make([]ItemView, 0, len(c.Items)),
		TotalPrice: c.TotalPrice,
		CreatedAt:  &c.CreatedAt,
		UpdatedAt:  &c.UpdatedAt,
	}
	for _, it := range c.Items {
		p, ok := live[it.ProductID]
		if !ok {
			continue
		}
		var size *string
		if it.Size != "" {
			s := it.Size
			size = &s
		}
		var images []string
		if img := p.PrimaryImage(); img != "" {
			images = []string{img}
		}
		v.Products = append(v.Products, ItemView{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Size:      size,
			Available: true,
			Stock:     p.Stock,
			Product: &ProductView{
				ID:            p.ID,
				Title:         p.Title,
				Images:        images,
				OriginalPrice: p.OriginalPrice,
				SalePrice:     p.SalePrice,
				IsOnSale:      p.IsOnSale,
				CurrentPrice:  catalog.EffectivePrice(p),
			},
		})
	}
	return v
}
