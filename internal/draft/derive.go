package draft

import (
	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// Trigger names which input changed, so derivation only ever overwrites
// the non-authoritative field and never the one the user is editing.
type Trigger string

const (
	TriggerPrice      Trigger = "price"       // Live quote tick or side change
	TriggerAmount     Trigger = "amount"      // User edited the dollar amount
	TriggerShares     Trigger = "shares"      // User edited the contract count
	TriggerLimitPrice Trigger = "limit_price" // User edited the limit price
)

var hundred = decimal.NewFromInt(100)

// EditAmount records a dollar-amount keystroke (dollars mode) and
// re-derives the share count.
func EditAmount(t Ticket, amount decimal.Decimal, q model.Quote) Ticket {
	t.Amount = amount.Round(2)
	return Derive(t, TriggerAmount, q)
}

// EditShares records a contract-count keystroke (contracts or limit
// mode) and re-derives the dollar amount.
func EditShares(t Ticket, shares decimal.Decimal, q model.Quote) Ticket {
	t.Shares = shares.Round(4)
	return Derive(t, TriggerShares, q)
}

// EditLimitPrice records a limit-price keystroke (integer cents) and
// re-derives the dollar amount. Once typed, side selection stops
// re-seeding the limit price.
func EditLimitPrice(t Ticket, cents int, q model.Quote) Ticket {
	t.LimitPrice = cents
	t.limitTouched = true
	return Derive(t, TriggerLimitPrice, q)
}

// ApplyPrice re-derives the dependent field after a live quote tick.
func ApplyPrice(t Ticket, q model.Quote) Ticket {
	return Derive(t, TriggerPrice, q)
}

// Derive recomputes the non-authoritative numeric field of t for the
// current entry mode, given which input changed and the latest quote for
// the selected side.
//
//   - dollars:   shares = amount / (price/100), 4 decimal places
//   - contracts: amount = shares * price / 100, 2 decimal places
//   - limit:     amount = shares * limitPrice / 100, 2 decimal places
//
// where price is the best ask when buying and the best bid when selling.
// An unavailable price leaves the derived field unset rather than
// propagating a division by zero.
func Derive(t Ticket, trigger Trigger, q model.Quote) Ticket {
	switch t.EntryMode {
	case model.ModeDollars:
		if trigger != TriggerAmount && trigger != TriggerPrice {
			return t
		}
		p, ok := livePrice(t.Direction, q)
		if !ok || p == 0 {
			t.Shares = decimal.Zero
			return t
		}
		t.Shares = t.Amount.Mul(hundred).DivRound(decimal.NewFromInt(int64(p)), 4)
		return t

	case model.ModeContracts:
		if trigger != TriggerShares && trigger != TriggerPrice {
			return t
		}
		p, ok := livePrice(t.Direction, q)
		if !ok || p == 0 {
			t.Amount = decimal.Zero
			return t
		}
		t.Amount = t.Shares.Mul(decimal.NewFromInt(int64(p))).DivRound(hundred, 2)
		return t

	case model.ModeLimit:
		// The live price never feeds limit math; the user's price does.
		if trigger != TriggerShares && trigger != TriggerLimitPrice {
			return t
		}
		if t.LimitPrice == 0 {
			t.Amount = decimal.Zero
			return t
		}
		t.Amount = t.Shares.Mul(decimal.NewFromInt(int64(t.LimitPrice))).DivRound(hundred, 2)
		return t
	}

	return t
}

// livePrice picks the book side the order would execute against.
func livePrice(d model.Direction, q model.Quote) (int, bool) {
	var p *int
	if d == model.DirectionBuy {
		p = q.BestAsk
	} else {
		p = q.BestBid
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}
