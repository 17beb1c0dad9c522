// Package validate checks an order ticket against venue rules before
// submission. Checks run in a fixed order and stop at the first failure;
// a failing ticket never reaches the network.
package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/draft"
	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/session"
)

// Kind classifies an order error.
type Kind string

const (
	KindNoSelection        Kind = "NoSelection"
	KindNotAuthenticated   Kind = "NotAuthenticated"
	KindInvalidAmount      Kind = "InvalidAmount"
	KindInvalidShares      Kind = "InvalidShares"
	KindPriceOutOfRange    Kind = "PriceOutOfRange"
	KindInsufficientShares Kind = "InsufficientShares"
	KindMissingExpiration  Kind = "MissingExpiration"
	KindValidationGeneric  Kind = "ValidationGeneric"

	// Submission outcomes, produced by the submitter rather than Check.
	KindSubmissionNetworkError Kind = "SubmissionNetworkError"
	KindSubmissionServerError  Kind = "SubmissionServerError"
)

// Limit prices run 1..9999: the venue quotes hundredths of a cent, so
// the ceiling is 9999 rather than 99.
const (
	MinLimitPrice = 1
	MaxLimitPrice = 9999
)

// Result is the outcome of a validation or submission attempt. It is
// recomputed on demand and never persisted.
type Result struct {
	OK      bool
	Kind    Kind
	Message string
}

// Ok is the passing result.
func Ok() Result {
	return Result{OK: true}
}

// Fail builds a failing result.
func Fail(kind Kind, message string) Result {
	return Result{Kind: kind, Message: message}
}

// Check validates a ticket for submission. available is the share count
// the user holds on the ticket's (market, side), which caps sells.
//
// KindNotAuthenticated is not a hard error: the caller shows a sign-in
// prompt instead of an error banner.
func Check(t draft.Ticket, sess session.Session, available decimal.Decimal) Result {
	if t.Side == "" {
		return Fail(KindNoSelection, "select an outcome first")
	}

	if !sess.Authenticated() {
		return Fail(KindNotAuthenticated, "sign in to place orders")
	}

	switch t.EntryMode {
	case model.ModeDollars:
		if !t.Amount.IsPositive() {
			return Fail(KindInvalidAmount, "enter an amount to trade")
		}
	case model.ModeContracts, model.ModeLimit:
		if !t.Shares.IsPositive() {
			return Fail(KindInvalidShares, "enter a number of contracts")
		}
	default:
		return Fail(KindValidationGeneric, fmt.Sprintf("unknown entry mode %q", t.EntryMode))
	}

	if t.EntryMode == model.ModeLimit {
		if t.LimitPrice < MinLimitPrice || t.LimitPrice > MaxLimitPrice {
			return Fail(KindPriceOutOfRange,
				fmt.Sprintf("limit price must be between %d and %d", MinLimitPrice, MaxLimitPrice))
		}
	}

	if t.Direction == model.DirectionSell && t.EntryMode != model.ModeDollars {
		if t.Shares.GreaterThan(available) {
			return Fail(KindInsufficientShares,
				fmt.Sprintf("you only hold %s contracts on %s", available, t.Side))
		}
	}

	return Ok()
}
