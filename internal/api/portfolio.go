package api

import (
	"context"
	"fmt"

	"github.com/dkaplan/trade-ticket/internal/model"
	"github.com/dkaplan/trade-ticket/internal/session"
)

// GetPositions fetches the user's open positions across all markets.
func (c *Client) GetPositions(ctx context.Context, sess session.Session) ([]model.Position, error) {
	var resp positionsResponse
	if err := c.get(ctx, "/api/portfolio/positions", sess.Token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get positions: %w", err)
	}

	positions := make([]model.Position, 0, len(resp.Positions))
	for _, p := range resp.Positions {
		positions = append(positions, p.toModel())
	}

	return positions, nil
}
