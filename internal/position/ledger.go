// Package position reports how many contracts the user holds per market
// side, the source for sell-side order caps.
package position

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// AvailableShares sums the shares held across all positions matching
// (marketID, side). Side labels match case-insensitively. Malformed
// entries (blank identifiers, negative share counts) are skipped, and
// missing inputs yield zero.
func AvailableShares(positions []model.Position, marketID, side string) decimal.Decimal {
	total := decimal.Zero
	if marketID == "" || side == "" {
		return total
	}

	for _, p := range positions {
		if p.MarketID == "" || p.Side == "" {
			continue
		}
		if p.Shares.IsNegative() {
			continue
		}
		if p.MarketID != marketID {
			continue
		}
		if !strings.EqualFold(p.Side, side) {
			continue
		}
		total = total.Add(p.Shares)
	}

	return total
}
