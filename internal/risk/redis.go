package risk

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"breakout-trading-bot/internal/interfaces"
	"breakout-trading-bot/internal/logger"
	"breakout-trading-bot/internal/types"

	goredis "github.com/go-redis/redis/v8"
)

const stateKey = "risk:state"

// RedisConfig configures the redis-backed risk store.
type RedisConfig struct {
	Addr     string // e.g. "localhost:6379"
	Password string
	DB       int
}

// RedisStore persists the risk state in redis so it survives restarts. The
// bot is the single logical writer for its day key; the mutex serializes
// the read-modify-write so calls for the same day never interleave.
type RedisStore struct {
	client *goredis.Client
	mu     sync.Mutex
}

var _ interfaces.RiskStore = (*RedisStore)(nil)

// NewRedisStore creates the store and pings the server.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) load(ctx context.Context) (types.RiskState, error) {
	var st types.RiskState
	raw, err := r.client.Get(ctx, stateKey).Bytes()
	if err == goredis.Nil {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("risk state get: %w", err)
	}
	if err := json.Unmarshal(raw, &st); err != nil {
		// A corrupt value degrades to a fresh state rather than wedging
		// every run.
		logger.Warn(ctx, "Discarding unreadable risk state", "error", err)
		return types.RiskState{}, nil
	}
	return st, nil
}

func (r *RedisStore) save(ctx context.Context, st types.RiskState) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, stateKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("risk state set: %w", err)
	}
	return nil
}

func (r *RedisStore) GetOrUpdate(ctx context.Context, day string, equity, dailyMaxLossPct float64) (types.RiskSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.load(ctx)
	if err != nil {
		return types.RiskSnapshot{}, err
	}
	pl := apply(&st, day, equity, dailyMaxLossPct)
	if err := r.save(ctx, st); err != nil {
		return types.RiskSnapshot{}, err
	}
	if st.HitDailyMaxLoss {
		logger.Risk(ctx, "", "DAILY_MAX_LOSS",
			"day", day,
			"current_day_pl", pl,
			"start_equity", st.StartEquity,
		)
	}
	return types.RiskSnapshot{RiskState: st, CurrentDayPL: pl}, nil
}

func (r *RedisStore) RegisterTradeResult(ctx context.Context, day string, pnl float64) (types.TradeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.load(ctx)
	if err != nil {
		return types.TradeResult{}, err
	}
	applyTrade(&st, day, pnl)
	if err := r.save(ctx, st); err != nil {
		return types.TradeResult{}, err
	}
	return types.TradeResult{Date: st.Date, ConsecLosses: st.ConsecLosses}, nil
}
