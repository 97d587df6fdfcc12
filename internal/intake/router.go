// Package intake maps uploaded document events to their owning orders and
// triggers the shipment transition.
package intake

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"order-pipeline/internal/documents"
	"order-pipeline/internal/orders"
)

// documentExtension is the only recognized document type.
const documentExtension = ".pdf"

// MetadataReader resolves an object's metadata, including its order id tag.
type MetadataReader interface {
	Head(ctx context.Context, key string) (*documents.Document, error)
}

// ShipmentMarker applies the terminal transition for one order.
type ShipmentMarker interface {
	MarkShipped(ctx context.Context, orderID, shipmentRef string) (*orders.Order, error)
}

// Router routes document-arrival events to MarkShipped.
type Router struct {
	docs   MetadataReader
	engine ShipmentMarker
	log    *slog.Logger
}

// NewRouter wires a Router to the document metadata source and the engine.
func NewRouter(docs MetadataReader, engine ShipmentMarker, log *slog.Logger) *Router {
	return &Router{
		docs:   docs,
		engine: engine,
		log:    log.With("component", "document_intake"),
	}
}

// HandleS3Event processes a batch of document-arrival events. Records fail
// independently; dependency failures are joined into the returned error so
// the trigger redelivers the batch, which is safe because MarkShipped is
// idempotent.
func (r *Router) HandleS3Event(ctx context.Context, event events.S3Event) error {
	r.log.InfoContext(ctx, "received document-arrival batch", "records", len(event.Records))

	var errs []error
	for _, rec := range event.Records {
		if err := r.processRecord(ctx, rec); err != nil {
			r.log.ErrorContext(ctx, "document intake failed",
				"key", rec.S3.Object.Key, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *Router) processRecord(ctx context.Context, rec events.S3EventRecord) error {
	// Event keys arrive URL-encoded.
	key, err := url.QueryUnescape(rec.S3.Object.Key)
	if err != nil {
		key = rec.S3.Object.Key
	}

	if !strings.EqualFold(path.Ext(key), documentExtension) {
		r.log.InfoContext(ctx, "ignoring non-document object", "key", key)
		return nil
	}

	head, err := r.docs.Head(ctx, key)
	if err != nil {
		return err
	}
	if head.OrderID == "" {
		// Untagged upload; not fatal, just not ours to route.
		r.log.WarnContext(ctx, "object has no order id tag, skipping", "key", key)
		return nil
	}

	shipmentRef := path.Base(key)
	order, err := r.engine.MarkShipped(ctx, head.OrderID, shipmentRef)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			// The tag points at an order we no longer know; redelivery
			// will not fix that.
			r.log.WarnContext(ctx, "tagged order does not exist, skipping",
				"key", key, "order_id", head.OrderID)
			return nil
		}
		return err
	}

	r.log.InfoContext(ctx, "order marked shipped from document",
		"order_id", order.OrderID, "shipment_reference", shipmentRef)
	return nil
}
