package api

import (
	"github.com/shopspring/decimal"

	"github.com/dkaplan/trade-ticket/internal/model"
)

// rawQuote is the wire shape of one side's best prices.
type rawQuote struct {
	BestAsk *int `json:"best_ask"`
	BestBid *int `json:"best_bid"`
}

// pricesResponse is returned by the market-prices endpoint.
type pricesResponse struct {
	Prices map[string]rawQuote `json:"prices"`
}

// rawPosition is the wire shape of one held position.
type rawPosition struct {
	MarketID string          `json:"market_id"`
	Side     string          `json:"side"`
	Shares   decimal.Decimal `json:"shares"`
}

// positionsResponse is returned by the portfolio endpoint.
type positionsResponse struct {
	Positions []rawPosition `json:"positions"`
}

func (r rawPosition) toModel() model.Position {
	return model.Position{
		MarketID: r.MarketID,
		Side:     r.Side,
		Shares:   r.Shares,
	}
}
