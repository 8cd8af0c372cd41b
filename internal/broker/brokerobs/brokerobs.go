package brokerobs

import (
	"context"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/trace"
	"breakout-trading-bot/internal/types"
)

// observableBroker wraps a Broker with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.Broker
}

// Compile-time interface check
var _ interfaces.Broker = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.Broker) interfaces.Broker {
	return &observableBroker{
		broker: broker,
	}
}

// GetAccount fetches the account snapshot with observability
func (ob *observableBroker) GetAccount(ctx context.Context) (types.Account, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetAccount")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching account")

	acct, err := ob.broker.GetAccount(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch account", err)
		return types.Account{}, err
	}

	logger.DebugSkip(ctx, 1, "Account fetched successfully", "equity", acct.Equity)
	return acct, nil
}

// GetPositions fetches open positions with observability
func (ob *observableBroker) GetPositions(ctx context.Context) ([]types.Position, error) {
	ctx, span := trace.StartSpan(ctx, "broker.GetPositions")
	defer span.End()

	positions, err := ob.broker.GetPositions(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch positions", err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Positions fetched successfully", "count", len(positions))
	return positions, nil
}

// PlaceOrder places an order with observability
func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Placing order",
		"symbol", req.Symbol,
		"side", req.Side,
		"qty", req.Qty,
		"tag", req.Tag,
	)

	resp, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to place order", err,
			"symbol", req.Symbol,
			"side", req.Side,
			"qty", req.Qty,
		)
		return types.OrderResp{}, err
	}

	logger.InfoSkip(ctx, 1, "Order placed successfully",
		"symbol", req.Symbol,
		"order_id", resp.OrderID,
		"status", resp.Status,
	)
	return resp, nil
}
