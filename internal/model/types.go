package model

import "github.com/shopspring/decimal"

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Quote holds the best prices for one side of a market.
// Prices are integer cents on a $1 contract, in [1, 99] when present.
// A nil price means that side of the book is empty.
type Quote struct {
	BestAsk *int // Lowest price a seller will accept
	BestBid *int // Highest price a buyer will pay
}

// Cents returns a pointer to v, for building Quote literals.
func Cents(v int) *int {
	return &v
}

// Position represents contracts held in a market, as reported by the
// portfolio service. Multiple positions may exist per (market, side).
type Position struct {
	MarketID string          // Market identifier
	Side     string          // Outcome label (e.g. "Yes", "No", a team code)
	Shares   decimal.Decimal // Contracts held, >= 0
}

// -----------------------------------------------------------------------------
// Order Enums
// -----------------------------------------------------------------------------

// Direction indicates whether the order buys or sells contracts.
type Direction string

const (
	DirectionBuy  Direction = "Buy"
	DirectionSell Direction = "Sell"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// EntryMode is the unit the user is typing the order in.
type EntryMode string

const (
	// ModeDollars sizes the order by dollars spent at the live price.
	ModeDollars EntryMode = "dollars"
	// ModeContracts sizes the order by contract count at the live price.
	ModeContracts EntryMode = "contracts"
	// ModeLimit sizes the order by contract count at a user-chosen price.
	ModeLimit EntryMode = "limit"
)

// Valid reports whether m is a known entry mode.
func (m EntryMode) Valid() bool {
	return m == ModeDollars || m == ModeContracts || m == ModeLimit
}
