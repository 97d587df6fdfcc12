// Package sweep promotes aged RECEIVED orders on a schedule.
package sweep

import (
	"context"
	"log/slog"
	"time"

	"order-pipeline/internal/orders"
)

// OrderSource supplies the orders eligible for sweeping.
type OrderSource interface {
	ScanByStatus(ctx context.Context, status orders.Status) ([]orders.Order, error)
}

// Promoter invokes the advance-to-preparation operation for one order.
// The engine satisfies this directly; the SQS publisher satisfies it via
// the promotions queue.
type Promoter interface {
	Promote(ctx context.Context, orderID string) error
}

// PromoteFunc adapts a function to the Promoter interface.
type PromoteFunc func(ctx context.Context, orderID string) error

func (f PromoteFunc) Promote(ctx context.Context, orderID string) error { return f(ctx, orderID) }

// Reporter receives the sweep summary after a run. Reporting is
// best-effort and never fails a sweep.
type Reporter interface {
	Report(ctx context.Context, s Summary)
}

// Outcome is the per-order result of one promotion attempt.
type Outcome struct {
	OrderID  string `json:"orderId"`
	Promoted bool   `json:"promoted"`
	Error    string `json:"error,omitempty"`
}

// Summary describes one sweep run.
type Summary struct {
	Scanned  int       `json:"scanned"`
	Selected int       `json:"selected"`
	Promoted int       `json:"promoted"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Sweeper scans RECEIVED orders and promotes those older than the threshold.
type Sweeper struct {
	source    OrderSource
	promoter  Promoter
	reporter  Reporter
	threshold time.Duration
	log       *slog.Logger
	nowFunc   func() time.Time
}

// NewSweeper builds a Sweeper. reporter may be nil.
func NewSweeper(source OrderSource, promoter Promoter, reporter Reporter, threshold time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{
		source:    source,
		promoter:  promoter,
		reporter:  reporter,
		threshold: threshold,
		log:       log.With("component", "promotion_sweeper"),
		nowFunc:   time.Now,
	}
}

// Run executes one sweep. Orders fail independently: a promotion failure is
// recorded in the summary and does not abort the rest of the batch. Running
// a sweep twice over the same orders is a no-op because promotion is
// idempotent at the engine.
func (s *Sweeper) Run(ctx context.Context) (Summary, error) {
	received, err := s.source.ScanByStatus(ctx, orders.StatusReceived)
	if err != nil {
		return Summary{}, err
	}

	now := s.nowFunc()
	summary := Summary{Scanned: len(received)}

	for _, o := range received {
		if now.Sub(o.CreatedAt) <= s.threshold {
			continue // still within the grace window
		}
		summary.Selected++

		outcome := Outcome{OrderID: o.OrderID}
		if err := s.promoter.Promote(ctx, o.OrderID); err != nil {
			outcome.Error = err.Error()
			summary.Failed++
			s.log.ErrorContext(ctx, "promotion failed", "order_id", o.OrderID, "error", err)
		} else {
			outcome.Promoted = true
			summary.Promoted++
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	s.log.InfoContext(ctx, "sweep finished",
		"scanned", summary.Scanned,
		"selected", summary.Selected,
		"promoted", summary.Promoted,
		"failed", summary.Failed)

	if s.reporter != nil {
		s.reporter.Report(ctx, summary)
	}
	return summary, nil
}
