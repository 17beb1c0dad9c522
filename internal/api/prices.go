package api

import (
	"context"
	"fmt"

	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/session"
)

// GetMarketPrices fetches the best bid/ask per side for an event.
func (c *Client) GetMarketPrices(ctx context.Context, sess session.Session, eventID string) (map[string]model.Quote, error) {
	var resp pricesResponse
	path := "/api/event/" + eventID + "/prices"
	if err := c.get(ctx, path, sess.Token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get market prices %s: %w", eventID, err)
	}

	prices := make(map[string]model.Quote, len(resp.Prices))
	for side, q := range resp.Prices {
		prices[side] = model.Quote{BestAsk: q.BestAsk, BestBid: q.BestBid}
	}

	return prices, nil
}
