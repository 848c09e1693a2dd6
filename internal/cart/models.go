package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Item is one product+size line in a session cart.
type Item struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
}

// Cart is the per-session document. Items live inside it as one JSONB value,
// so every save is a single-row atomic write.
type Cart struct {
	ID         string
	SessionID  string
	Items      []Item
	TotalPrice int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MaxQuantity caps a single line and the merged quantity for one
// product+size pair.
const MaxQuantity = 1000

func newItemID() string {
	return fmt.Sprintf("cart_item_%s", uuid.NewString())
}
