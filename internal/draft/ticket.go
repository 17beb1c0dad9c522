// Package draft holds the in-progress order ticket and the derivation
// engine that keeps its dependent numeric fields consistent.
//
// Every operation is a pure reducer: it takes a Ticket value and returns
// the next one. Re-running any operation with identical inputs yields an
// identical ticket, so quote ticks and keystrokes can interleave freely
// without accumulating drift.
package draft

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/expiry"
	"github.com/dkaplan/trade-ticket/internal/model"
)

// Expiration is the user's expiration choice for the ticket.
type Expiration struct {
	Enabled  bool
	Policy   expiry.Policy
	CustomAt *time.Time
}

// Ticket is the mutable order draft for one market-detail view.
//
// At most one of Amount/Shares is authoritative at any instant: the one
// the user last edited for the current entry mode. The other is always
// derived from it and the latest price. LimitPrice is authoritative only
// in limit mode.
type Ticket struct {
	EventID  string
	MarketID string

	Side      string // Selected outcome label; empty until the user picks one
	Direction model.Direction
	EntryMode model.EntryMode

	Amount     decimal.Decimal // Dollars, 2 decimal places
	Shares     decimal.Decimal // Contracts, up to 4 decimal places
	LimitPrice int             // Integer cents; no fractional cents

	Expiration Expiration

	// limitTouched latches once the user types a limit price, so side
	// selection stops re-seeding it.
	limitTouched bool
}

// New creates a fresh ticket for a market view with default entry
// settings: buying in dollars, no expiration.
func New(eventID, marketID string) Ticket {
	return Ticket{
		EventID:   eventID,
		MarketID:  marketID,
		Direction: model.DirectionBuy,
		EntryMode: model.ModeDollars,
	}
}

// SetDirection switches between buying and selling. Any actual change
// clears the numeric fields so no derived value leaks across the switch.
func SetDirection(t Ticket, d model.Direction) Ticket {
	if t.Direction == d {
		return t
	}
	t.Direction = d
	return clearNumeric(t)
}

// SetEntryMode switches the unit the user is typing in. Any actual
// change clears the numeric fields.
func SetEntryMode(t Ticket, m model.EntryMode) Ticket {
	if t.EntryMode == m {
		return t
	}
	t.EntryMode = m
	return clearNumeric(t)
}

// SelectSide picks an outcome and seeds the limit price from that side's
// book (best ask when buying, best bid when selling) unless the user has
// already typed a limit price this session. Dependent fields are
// re-derived against the new side's quote.
func SelectSide(t Ticket, side string, q model.Quote) Ticket {
	t.Side = side

	if !t.limitTouched {
		if p, ok := livePrice(t.Direction, q); ok {
			t.LimitPrice = p
		} else {
			t.LimitPrice = 0
		}
	}

	t = Derive(t, TriggerPrice, q)
	if t.EntryMode == model.ModeLimit {
		// The seeded limit price is what limit math derives from.
		t = Derive(t, TriggerLimitPrice, q)
	}
	return t
}

// SetExpiration replaces the expiration choice.
func SetExpiration(t Ticket, e Expiration) Ticket {
	t.Expiration = e
	return t
}

// ResetAfterSubmit clears the numeric fields after a successful
// submission, keeping side, direction, mode, and expiration choice.
func ResetAfterSubmit(t Ticket) Ticket {
	return clearNumeric(t)
}

func clearNumeric(t Ticket) Ticket {
	t.Amount = decimal.Zero
	t.Shares = decimal.Zero
	t.LimitPrice = 0
	t.limitTouched = false
	return t
}
