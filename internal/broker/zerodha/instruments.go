package zerodha

import (
	"fmt"
	"sync"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// tokenCache maps tradingsymbols to instrument tokens, loading the full
// exchange instrument dump once on first use.
type tokenCache struct {
	mu     sync.Mutex
	byName map[string]int
}

func newTokenCache() *tokenCache {
	return &tokenCache{}
}

func (tc *tokenCache) lookup(kc *kiteconnect.Client, exchange, symbol string) (int, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.byName == nil {
		instruments, err := kc.GetInstrumentsByExchange(exchange)
		if err != nil {
			return 0, fmt.Errorf("load instruments: %w", err)
		}
		tc.byName = make(map[string]int, len(instruments))
		for _, in := range instruments {
			tc.byName[in.Tradingsymbol] = in.InstrumentToken
		}
	}

	token, ok := tc.byName[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown instrument %s:%s", exchange, symbol)
	}
	return token, nil
}
