// Package zerodha adapts the Kite Connect API to the bot's Broker and
// MarketData contracts, with simulated fallbacks for dry runs and offline
// testing.
package zerodha

import (
	"context"
	"errors"
	"fmt"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/types"

	"github.com/oklog/ulid/v2"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

type Params struct {
	Mode        string // DRY_RUN or LIVE (order submission)
	DataSource  string // STATIC or LIVE (snapshot, bars, account)
	APIKey      string
	AccessToken string
	Exchange    string
	Candidates  []string // quote universe for Snapshot
}

type Client struct {
	p      Params
	kc     *kiteconnect.Client
	tokens *tokenCache
}

var (
	_ interfaces.Broker     = (*Client)(nil)
	_ interfaces.MarketData = (*Client)(nil)
)

func New(p Params) *Client {
	c := &Client{p: p}
	if p.DataSource == "LIVE" || p.Mode == "LIVE" {
		c.kc = kiteconnect.New(p.APIKey)
		c.kc.SetAccessToken(p.AccessToken)
	}
	c.tokens = newTokenCache()
	return c
}

func (c *Client) GetAccount(ctx context.Context) (types.Account, error) {
	if c.p.DataSource != "LIVE" {
		return staticAccount(), nil
	}
	margins, err := c.kc.GetUserMargins()
	if err != nil {
		return types.Account{}, fmt.Errorf("user margins: %w", err)
	}
	return types.Account{
		Equity:      margins.Equity.Net,
		BuyingPower: margins.Equity.Available.LiveBalance,
	}, nil
}

func (c *Client) GetPositions(ctx context.Context) ([]types.Position, error) {
	if c.p.DataSource != "LIVE" {
		return nil, nil
	}
	positions, err := c.kc.GetPositions()
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	out := make([]types.Position, 0, len(positions.Net))
	for _, p := range positions.Net {
		if p.Quantity == 0 {
			continue
		}
		out = append(out, types.Position{
			Symbol: p.Tradingsymbol,
			Qty:    p.Quantity,
			Avg:    p.AveragePrice,
		})
	}
	return out, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	if c.p.Mode == "DRY_RUN" {
		return types.OrderResp{
			OrderID: "SIM-" + ulid.Make().String(),
			Status:  "SIMULATED",
			Message: "dry-run",
		}, nil
	}

	if c.p.APIKey == "" || c.p.AccessToken == "" {
		return types.OrderResp{}, errors.New("missing API key/access token")
	}

	txnType := kiteconnect.TransactionTypeBuy
	if req.Side == "SELL" {
		txnType = kiteconnect.TransactionTypeSell
	}
	resp, err := c.kc.PlaceOrder(kiteconnect.VarietyRegular, kiteconnect.OrderParams{
		Exchange:        c.p.Exchange,
		Tradingsymbol:   req.Symbol,
		TransactionType: txnType,
		Quantity:        req.Qty,
		Product:         kiteconnect.ProductMIS,
		OrderType:       kiteconnect.OrderTypeMarket,
		Tag:             req.Tag,
	})
	if err != nil {
		return types.OrderResp{}, fmt.Errorf("place order: %w", err)
	}
	logger.Trade(ctx, req.Symbol, req.Side, req.Qty, resp.OrderID)
	return types.OrderResp{OrderID: resp.OrderID, Status: "PLACED", Message: "ok"}, nil
}
