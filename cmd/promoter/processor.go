package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	awsx "order-pipeline/internal/aws"
	"order-pipeline/internal/lifecycle"
	"order-pipeline/internal/orders"
)

// Processor consumes advance-to-preparation messages and drives the engine.
type Processor struct {
	engine *lifecycle.Engine
	log    *slog.Logger
}

// NewProcessor wires the consumer to the lifecycle engine.
func NewProcessor(engine *lifecycle.Engine, log *slog.Logger) *Processor {
	return &Processor{
		engine: engine,
		log:    log.With("component", "promoter"),
	}
}

// Handle processes a batch of promotion messages. Messages fail
// independently; dependency failures are joined into the returned error so
// the queue redelivers the batch, which is safe because promotion is
// idempotent.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	p.log.InfoContext(ctx, "received promotion batch", "records", len(ev.Records))

	var errs []error
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			p.log.ErrorContext(ctx, "promotion message failed", "message_id", rec.MessageId, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg awsx.PromotionMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		// Malformed payloads will not improve on redelivery.
		p.log.WarnContext(ctx, "dropping malformed promotion message",
			"message_id", rec.MessageId, "error", err)
		return nil
	}
	if msg.OrderID == "" {
		p.log.WarnContext(ctx, "dropping promotion message without order id",
			"message_id", rec.MessageId)
		return nil
	}

	order, err := p.engine.AdvanceToPreparation(ctx, msg.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			// Unknown order; redelivery will not fix that.
			p.log.WarnContext(ctx, "promotion target does not exist, skipping",
				"order_id", msg.OrderID)
			return nil
		}
		return fmt.Errorf("advance order %s: %w", msg.OrderID, err)
	}

	p.log.InfoContext(ctx, "order promoted", "order_id", order.OrderID, "status", string(order.Status))
	return nil
}
