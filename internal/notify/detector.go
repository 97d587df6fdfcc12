package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"order-pipeline/internal/orders"
)

// Detector observes before/after snapshots of order records and sends a
// notification when the status actually changed.
type Detector struct {
	sender Sender
	log    *slog.Logger
}

// NewDetector wires a Detector to a notification sender.
func NewDetector(sender Sender, log *slog.Logger) *Detector {
	return &Detector{
		sender: sender,
		log:    log.With("component", "change_detector"),
	}
}

// HandleStream processes a batch of record-change events. Records fail
// independently: a send failure for one order is logged and never blocks
// the rest of the batch. The stream source redelivers at least once, and
// notification skips are not worth a redelivery, so this always returns nil.
func (d *Detector) HandleStream(ctx context.Context, event events.DynamoDBEvent) error {
	d.log.InfoContext(ctx, "received record-change batch", "records", len(event.Records))
	for _, rec := range event.Records {
		d.processRecord(ctx, rec)
	}
	return nil
}

func (d *Detector) processRecord(ctx context.Context, rec events.DynamoDBEventRecord) {
	change := rec.Change
	if len(change.NewImage) == 0 {
		return // deletion; nothing to notify
	}
	if len(change.OldImage) == 0 {
		// Pure creation. The insert path does not notify; only genuine
		// status changes do.
		return
	}

	oldOrder := orderFromImage(change.OldImage)
	newOrder := orderFromImage(change.NewImage)

	if oldOrder.Status == newOrder.Status {
		// Identical-value write (redundant apply); idempotent no-op.
		return
	}

	if err := d.Notify(ctx, newOrder); err != nil {
		switch {
		case errors.Is(err, ErrNoTemplate), errors.Is(err, ErrNoRecipient):
			d.log.WarnContext(ctx, "notification skipped",
				"order_id", newOrder.OrderID, "status", string(newOrder.Status), "reason", err.Error())
		default:
			d.log.ErrorContext(ctx, "notification failed",
				"order_id", newOrder.OrderID, "status", string(newOrder.Status), "error", err)
		}
		return
	}

	d.log.InfoContext(ctx, "notification sent",
		"order_id", newOrder.OrderID,
		"old_status", string(oldOrder.Status),
		"new_status", string(newOrder.Status))
}

// Notify renders the template for the order's current status and sends it to
// the customer. Returns ErrNoTemplate or ErrNoRecipient for the skip cases.
func (d *Detector) Notify(ctx context.Context, o orders.Order) error {
	subject, body, err := renderMessage(o)
	if err != nil {
		return err
	}
	if o.CustomerEmail == "" {
		return ErrNoRecipient
	}
	return d.sender.Send(ctx, o.CustomerEmail, subject, body)
}
