package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sokaytech/storefront/internal/models"
)

// Notifier builds the storefront's transactional emails on top of a
// Client. AdminEmail receives a copy of every new order.
type Notifier struct {
	Client     Client
	AdminEmail string
}

func (n *Notifier) SendOrderConfirmation(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Thank you for your order, %s!</h1>", order.Name)
	b.WriteString("<p>We've received your order and are processing it now.</p>")
	fmt.Fprintf(&b, "<p><strong>Order reference:</strong> %s</p>", order.Reference)
	fmt.Fprintf(&b, "<p><strong>Payment method:</strong> %s</p>", paymentLabel(order.PaymentMethod))
	writeItemsTable(&b, items, order.TotalAmount)

	subject := fmt.Sprintf("Order Confirmation #%s", order.Reference)
	return n.Client.Send(ctx, order.Email, subject, b.String())
}

func (n *Notifier) SendAdminNotification(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	var b strings.Builder
	b.WriteString("<h1>New Order Received</h1>")
	fmt.Fprintf(&b, "<p><strong>Order reference:</strong> %s</p>", order.Reference)
	fmt.Fprintf(&b, "<p><strong>Customer:</strong> %s (%s)</p>", order.Name, order.Email)
	fmt.Fprintf(&b, "<p><strong>Payment method:</strong> %s</p>", paymentLabel(order.PaymentMethod))
	writeItemsTable(&b, items, order.TotalAmount)

	subject := fmt.Sprintf("New Order #%s", order.Reference)
	return n.Client.Send(ctx, n.AdminEmail, subject, b.String())
}

func (n *Notifier) SendSubscribeConfirmation(ctx context.Context, email string) error {
	html := "<h1>Thank you for subscribing!</h1>" +
		"<p>You've successfully subscribed to the Sokay Technologies newsletter.</p>" +
		"<p>If you didn't subscribe, please ignore this email.</p>"
	return n.Client.Send(ctx, email, "Welcome to Sokay Technologies Newsletter", html)
}

func writeItemsTable(b *strings.Builder, items []models.OrderItem, total int64) {
	b.WriteString("<table><tr><th>Product</th><th>Price</th><th>Qty</th><th>Subtotal</th></tr>")
	for _, it := range items {
		fmt.Fprintf(b, "<tr><td>%s</td><td>₦%d</td><td>%d</td><td>₦%d</td></tr>",
			it.Name, it.Price, it.Quantity, it.Price*int64(it.Quantity))
	}
	fmt.Fprintf(b, "<tr><td colspan=\"3\"><strong>Total</strong></td><td><strong>₦%d</strong></td></tr></table>", total)
}

func paymentLabel(method string) string {
	if method == models.PaymentMethodPaystack {
		return "Paystack"
	}
	return "Cash on Delivery"
}
