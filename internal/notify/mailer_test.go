package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dastkar/rugshop/internal/orders"
)

func sampleOrder() *orders.Order {
	return &orders.Order{
		ID:             "ord-1",
		Username:       "Ayesha",
		Email:          "ayesha@example.com",
		Currency:       "PKR",
		ShippingFee:    500,
		TotalPrice:     20500,
		TrackingNumber: "TRK-99",
		Items: []orders.LineItem{
			{Title: "Heriz Rug", Size: "5x7", Quantity: 2, UnitPrice: 10000, LineTotal: 20000},
		},
	}
}

func TestRenderOrderConfirmation(t *testing.T) {
	subject, body := RenderOrderConfirmation("Dastkar Rugs", sampleOrder())
	assert.Equal(t, "Order Confirmation - Dastkar Rugs", subject)
	assert.Contains(t, body, "Hello Ayesha,")
	assert.Contains(t, body, "ord-1")
	assert.Contains(t, body, "Heriz Rug (size 5x7) x2")
	assert.Contains(t, body, "Shipping fee: 500 PKR")
	assert.Contains(t, body, "Total: 20500 PKR")
}

func TestRenderOrderDelivered(t *testing.T) {
	subject, body := RenderOrderDelivered("Dastkar Rugs", sampleOrder())
	assert.Equal(t, "Your Order Has Been Delivered - Dastkar Rugs", subject)
	assert.Contains(t, body, "Tracking number: TRK-99")
	assert.Contains(t, body, "Heriz Rug")
}
