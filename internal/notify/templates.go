package notify

import (
	"errors"
	"fmt"
	"time"

	"order-pipeline/internal/orders"
)

var (
	// ErrNoTemplate means no message template matches the new status.
	// Skip-and-continue, never fatal.
	ErrNoTemplate = errors.New("no template for status")

	// ErrNoRecipient means the order has no customer email to notify.
	// Skip-and-continue, never fatal.
	ErrNoRecipient = errors.New("no recipient email on order")
)

// renderMessage produces the subject and body for the order's current
// status. The template set is fixed per status.
func renderMessage(o orders.Order) (subject, body string, err error) {
	switch o.Status {
	case orders.StatusReceived:
		subject = fmt.Sprintf("Order %s received", o.OrderID)
		body = fmt.Sprintf(
			"Hi %s,\n\nWe have received your order %s for $%.2f. We'll let you know as soon as it moves along.\n",
			o.CustomerName, o.OrderID, o.Amount)
	case orders.StatusInPreparation:
		subject = fmt.Sprintf("Order %s is being prepared", o.OrderID)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour order %s for $%.2f is now in preparation.\n",
			o.CustomerName, o.OrderID, o.Amount)
	case orders.StatusShipped:
		shippedAt := ""
		if o.ShippedAt != nil {
			shippedAt = o.ShippedAt.Format(time.RFC1123)
		}
		subject = fmt.Sprintf("Order %s has shipped", o.OrderID)
		body = fmt.Sprintf(
			"Hi %s,\n\nYour order %s for $%.2f shipped on %s.\nShipment reference: %s\n",
			o.CustomerName, o.OrderID, o.Amount, shippedAt, o.ShipmentReference)
	default:
		return "", "", fmt.Errorf("%w: %q", ErrNoTemplate, string(o.Status))
	}
	return subject, body, nil
}
