package orders

import "time"

type PaymentMethod string

const (
	PaymentOnline        PaymentMethod = "online"
	PaymentPayAtLocation PaymentMethod = "pay_at_location"
)

// LineItem is a snapshot taken at checkout. Title, image, size and prices
// are frozen; later catalog changes never touch an existing order.
type LineItem struct {
	ProductID string `json:"productId"`
	Title     string `json:"title"`
	Image     string `json:"image"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
	LineTotal int    `json:"lineTotal"` // unitPrice * quantity
}

type Order struct {
	ID             string        `json:"id"`
	Email          string        `json:"email"`
	Username       string        `json:"username"`
	PhoneNumber    string        `json:"phoneNumber,omitempty"`
	Address        string        `json:"address,omitempty"`
	Country        string        `json:"country,omitempty"`
	City           string        `json:"city,omitempty"`
	PostalCode     string        `json:"postalCode,omitempty"`
	Items          []LineItem    `json:"items"`
	TotalPrice     int           `json:"totalPrice"` // items subtotal + shipping fee, fixed at creation
	ShippingFee    int           `json:"shippingFee"`
	Status         Status        `json:"status"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	Currency       string        `json:"currency"`
	CancelReason   string        `json:"cancelReason,omitempty"`
	TrackingNumber string        `json:"trackingNumber,omitempty"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
