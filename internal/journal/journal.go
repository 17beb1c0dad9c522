// Package journal records every order submission attempt and its
// outcome. Recording is best-effort: a journal failure is logged and
// never surfaces into the trading path.
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// Entry is one submission attempt.
type Entry struct {
	ID            uuid.UUID       // Journal entry ID
	At            time.Time       // When the attempt was made
	ClientOrderID string          // Idempotency key sent with the order
	EventID       string          // Event identifier
	MarketID      string          // Market identifier
	Side          string          // Outcome label
	Direction     model.Direction // Buy or Sell
	Mode          model.EntryMode // dollars, contracts, or limit
	Shares        decimal.Decimal // Contracts submitted
	PricePerShare *int            // Limit price in cents, nil for market orders
	Accepted      bool            // Whether the venue accepted the order
	Message       string          // Venue or transport message on rejection
}

// Recorder persists submission entries.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries, used when journaling is disabled.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, Entry) error {
	return nil
}
