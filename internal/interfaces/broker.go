package interfaces

import (
	"context"

	"breakout-trading-bot/internal/types"
)

// Broker is the brokerage collaborator. Account, positions and orders only;
// the core never mutates what it reads back.
type Broker interface {
	GetAccount(ctx context.Context) (types.Account, error)
	GetPositions(ctx context.Context) ([]types.Position, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResp, error)
}
