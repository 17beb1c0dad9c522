package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/session"
)

// PlaceMarketOrder submits an order executed at the live price (the
// dollars and contracts entry modes).
func (c *Client) PlaceMarketOrder(ctx context.Context, sess session.Session, dir model.Direction, req model.OrderRequest) (*model.OrderResponse, error) {
	return c.placeOrder(ctx, sess, "/api/event/orders/market/"+pathSegment(dir), req)
}

// PlaceLimitOrder submits an order resting at the user's limit price.
func (c *Client) PlaceLimitOrder(ctx context.Context, sess session.Session, dir model.Direction, req model.OrderRequest) (*model.OrderResponse, error) {
	return c.placeOrder(ctx, sess, "/api/event/orders/"+pathSegment(dir), req)
}

func (c *Client) placeOrder(ctx context.Context, sess session.Session, path string, req model.OrderRequest) (*model.OrderResponse, error) {
	var resp model.OrderResponse
	if err := c.post(ctx, path, sess.Token, req, &resp); err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	c.logger.Debug("order placed",
		"market_id", req.MarketID,
		"side", req.Side,
		"shares", req.Shares,
		"order_id", resp.OrderID,
	)

	return &resp, nil
}

func pathSegment(d model.Direction) string {
	return strings.ToLower(string(d))
}
