package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dastkar/rugshop/internal/orders"
)

// Mailer sends a single plain-text email.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	if m.Host == "" || m.From == "" {
		return fmt.Errorf("smtp is not configured")
	}
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	msg := strings.Join([]string{
		"From: " + m.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg))
}

func renderItems(b *strings.Builder, o *orders.Order) {
	for _, it := range o.Items {
		size := ""
		if it.Size != "" {
			size = fmt.Sprintf(" (size %s)", it.Size)
		}
		fmt.Fprintf(b, "  - %s%s x%d - %d %s\n", it.Title, size, it.Quantity, it.LineTotal, o.Currency)
	}
}

func RenderOrderConfirmation(storeName string, o *orders.Order) (subject, body string) {
	subject = fmt.Sprintf("Order Confirmation - %s", storeName)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", o.Username)
	fmt.Fprintf(&b, "Thank you for your order! Your order %s has been confirmed.\n\n", o.ID)
	b.WriteString("Items:\n")
	renderItems(&b, o)
	fmt.Fprintf(&b, "\nShipping fee: %d %s\n", o.ShippingFee, o.Currency)
	fmt.Fprintf(&b, "Total: %d %s\n", o.TotalPrice, o.Currency)
	b.WriteString("\nPayment method: pay at location.\n")
	fmt.Fprintf(&b, "\n- %s Team\n", storeName)
	return subject, b.String()
}

func RenderOrderDelivered(storeName string, o *orders.Order) (subject, body string) {
	subject = fmt.Sprintf("Your Order Has Been Delivered - %s", storeName)
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", o.Username)
	fmt.Fprintf(&b, "Your order %s has been delivered.\n", o.ID)
	fmt.Fprintf(&b, "Tracking number: %s\n\n", o.TrackingNumber)
	b.WriteString("Items:\n")
	renderItems(&b, o)
	fmt.Fprintf(&b, "\nTotal: %d %s\n", o.TotalPrice, o.Currency)
	fmt.Fprintf(&b, "\n- %s Team\n", storeName)
	return subject, b.String()
}
