// Package feed maintains a WebSocket subscription to the venue's price
// stream and hands each price map to the quote tracker.
package feed

import (
	"encoding/json"
	"fmt"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// frame is the wire envelope of one feed message.
type frame struct {
	Type    string              `json:"type"`
	EventID string              `json:"event_id"`
	Prices  map[string]rawQuote `json:"prices"`
}

type rawQuote struct {
	BestAsk *int `json:"best_ask"`
	BestBid *int `json:"best_bid"`
}

// parseFrame decodes a feed message. ok is false for frame types other
// than price updates (heartbeats, subscription acks), which carry no
// prices.
func parseFrame(data []byte) (map[string]model.Quote, bool, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("parse feed frame: %w", err)
	}

	if f.Type != "prices" {
		return nil, false, nil
	}

	prices := make(map[string]model.Quote, len(f.Prices))
	for side, q := range f.Prices {
		prices[side] = model.Quote{BestAsk: q.BestAsk, BestBid: q.BestBid}
	}

	return prices, true, nil
}
