package cache

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/metrics"
)

// DetailCache keeps the latest known quantity of individual items, keyed by
// the lower-cased English display name. It is less specific than the batch
// cache (no role, no cart context) and is consulted second.
type DetailCache struct {
	mu    sync.RWMutex
	cache map[string]market.ItemStock
}

func NewDetailCache() *DetailCache {
	return &DetailCache{
		cache: make(map[string]market.ItemStock),
	}
}

// DetailKey normalizes an item name for lookup.
func DetailKey(name market.ItemName) string {
	return strings.ToLower(name.En)
}

func (c *DetailCache) Set(stock market.ItemStock) {
	key := DetailKey(stock.Name)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = stock
	metrics.AvailabilityCacheEntries.WithLabelValues("detail").Set(float64(len(c.cache)))
	zap.L().Debug("detail cache set", zap.String("key", key))
}

func (c *DetailCache) Get(name market.ItemName) (market.ItemStock, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stock, found := c.cache[DetailKey(name)]
	return stock, found
}
