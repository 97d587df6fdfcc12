// Package lifecycle owns the order state machine: which transitions are
// legal, how they are applied, and what a duplicate or stale trigger means.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"order-pipeline/internal/orders"
)

// Engine validates and applies order lifecycle transitions.
type Engine struct {
	store   *orders.Store
	log     *slog.Logger
	nowFunc func() time.Time
	newID   func() string
}

// NewEngine wires an Engine to the order store.
func NewEngine(store *orders.Store, log *slog.Logger) *Engine {
	return &Engine{
		store:   store,
		log:     log.With("component", "lifecycle"),
		nowFunc: time.Now,
		newID:   uuid.NewString,
	}
}

// CreateParams carries the inputs for CreateOrder. Status, ShipmentReference
// and ShippedAt are optional caller overrides.
type CreateParams struct {
	CustomerEmail     string
	CustomerName      string
	Amount            float64
	Status            orders.Status
	ShipmentReference string
	ShippedAt         *time.Time
}

// CreateOrder validates the params, generates an id and creation timestamp,
// and persists the order. Status defaults to RECEIVED when not supplied.
func (e *Engine) CreateOrder(ctx context.Context, p CreateParams) (*orders.Order, error) {
	if strings.TrimSpace(p.CustomerEmail) == "" {
		return nil, fmt.Errorf("%w: customerEmail is required", orders.ErrValidation)
	}
	if strings.TrimSpace(p.CustomerName) == "" {
		return nil, fmt.Errorf("%w: customerName is required", orders.ErrValidation)
	}
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be a positive number", orders.ErrValidation)
	}
	status := p.Status
	if status == "" {
		status = orders.StatusReceived
	}
	if !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", orders.ErrValidation, string(p.Status))
	}

	now := e.nowFunc()
	order := orders.Order{
		OrderID:           e.newID(),
		CustomerEmail:     p.CustomerEmail,
		CustomerName:      p.CustomerName,
		Amount:            p.Amount,
		Status:            status,
		ShipmentReference: p.ShipmentReference,
		ShippedAt:         p.ShippedAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := e.store.Create(ctx, order); err != nil {
		return nil, err
	}

	e.log.InfoContext(ctx, "order created",
		"order_id", order.OrderID, "status", string(order.Status))
	return &order, nil
}

// GetOrder fetches a single order. Returns orders.ErrNotFound for unknown ids.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	o, err := e.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

// ListOrders returns every order. Full scan, no pagination.
func (e *Engine) ListOrders(ctx context.Context) ([]orders.Order, error) {
	return e.store.ScanAll(ctx)
}

// AdvanceToPreparation moves the order to IN_PREPARATION. Advancing an order
// already at or past IN_PREPARATION is an idempotent no-op that returns the
// current record unchanged.
func (e *Engine) AdvanceToPreparation(ctx context.Context, orderID string) (*orders.Order, error) {
	return e.transition(ctx, orderID, orders.StatusInPreparation, func(expected orders.Status) (*orders.Order, error) {
		return e.store.UpdateStatus(ctx, orderID, expected, orders.StatusInPreparation)
	})
}

// MarkShipped moves the order to SHIPPED, stamping shippedAt and the supplied
// shipment reference. Marking an already shipped order is an idempotent no-op.
func (e *Engine) MarkShipped(ctx context.Context, orderID, shipmentRef string) (*orders.Order, error) {
	return e.transition(ctx, orderID, orders.StatusShipped, func(expected orders.Status) (*orders.Order, error) {
		return e.store.UpdateShipped(ctx, orderID, expected, shipmentRef, e.nowFunc())
	})
}

// transition reads the order, decides what the target status means relative
// to the current one, and applies the conditional write. A conditional miss
// means a concurrent writer got there first; we re-read once and re-decide,
// which turns duplicate and racing triggers into no-ops.
func (e *Engine) transition(ctx context.Context, orderID string, target orders.Status, apply func(expected orders.Status) (*orders.Order, error)) (*orders.Order, error) {
	for attempt := 0; attempt < 2; attempt++ {
		current, err := e.store.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, orders.ErrNotFound
		}

		if current.Status == target || current.Status.Rank() > target.Rank() {
			// Duplicate or stale trigger: the order already reached or
			// passed the target. At-least-once delivery makes this normal.
			e.log.InfoContext(ctx, "transition skipped, already at or past target",
				"order_id", orderID, "status", string(current.Status), "target", string(target))
			return current, nil
		}
		if !orders.CanTransition(current.Status, target) {
			return nil, fmt.Errorf("%w: %s -> %s", orders.ErrConflict, current.Status, target)
		}

		updated, err := apply(current.Status)
		if errors.Is(err, orders.ErrStatusMismatch) {
			continue // lost a race; re-read and re-decide
		}
		if err != nil {
			return nil, err
		}
		e.log.InfoContext(ctx, "order transitioned",
			"order_id", orderID, "from", string(current.Status), "to", string(target))
		return updated, nil
	}
	return nil, fmt.Errorf("%w: %s did not settle after concurrent update", orders.ErrConflict, orderID)
}
