package shipping

import "time"

// Config is the per-country shipping fee rule. One row per country.
type Config struct {
	ID                    string    `json:"id"`
	Country               string    `json:"country"`
	FreeShippingThreshold int       `json:"freeShippingThreshold"`
	Fee                   int       `json:"shippingFee"`
	IsActive              bool      `json:"isActive"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// DefaultCountry is used whenever a request leaves the country blank.
const DefaultCountry = "Pakistan"
