package model

import "github.com/shopspring/decimal"

// The venue speaks bare JSON numbers for share counts, not quoted
// decimal strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// -----------------------------------------------------------------------------
// Wire Types
// -----------------------------------------------------------------------------

// OrderRequest is the JSON body posted to the order endpoints.
type OrderRequest struct {
	EventID       string          `json:"event_id"`
	MarketID      string          `json:"market_id"`
	Side          string          `json:"side"`
	Shares        decimal.Decimal `json:"shares"`
	PricePerShare *int            `json:"price_per_share,omitempty"` // Limit orders only
	Expiration    string          `json:"expiration,omitempty"`      // ISO 8601 UTC; absent when no expiration
	ClientOrderID string          `json:"client_order_id"`
}

// OrderResponse is the JSON body returned by the order endpoints.
type OrderResponse struct {
	Success bool   `json:"success"`
	OrderID string `json:"order_id,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEnvelope is the JSON body the venue returns on non-2xx responses.
type ErrorEnvelope struct {
	Message string `json:"message"`
}
