package cache

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/metrics"
	"github.com/recyloop/gateway/internal/status"
)

// BatchCache holds the results of backend batch availability lookups, keyed
// by the full set of cart item ids plus the acting role. A batch entry is
// only reused when the cart still contains exactly the same items, so it is
// the most specific availability source the gateway has.
type BatchCache struct {
	mu    sync.RWMutex
	cache map[string]map[string]market.ItemStock
}

func NewBatchCache() *BatchCache {
	return &BatchCache{
		cache: make(map[string]map[string]market.ItemStock),
	}
}

// BatchKey builds the cache key from an unordered id set and role. The ids
// are sorted so callers never have to care about cart ordering.
func BatchKey(itemIDs []string, role status.Role) string {
	ids := make([]string, len(itemIDs))
	copy(ids, itemIDs)
	sort.Strings(ids)
	return strings.Join(ids, ",") + "|" + string(role)
}

func (c *BatchCache) Set(key string, stocks []market.ItemStock) {
	byID := make(map[string]market.ItemStock, len(stocks))
	for _, s := range stocks {
		byID[s.ItemID] = s
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = byID
	metrics.AvailabilityCacheEntries.WithLabelValues("batch").Set(float64(len(c.cache)))
	zap.L().Debug("batch cache set", zap.String("key", key), zap.Int("items", len(byID)))
}

// Get returns the cached stock row for one item of the batch, if the batch
// was fetched and the item has a defined quantity row.
func (c *BatchCache) Get(key, itemID string) (market.ItemStock, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	batch, found := c.cache[key]
	if !found {
		return market.ItemStock{}, false
	}
	stock, found := batch[itemID]
	return stock, found
}

func (c *BatchCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[key]; found {
		delete(c.cache, key)
		metrics.AvailabilityCacheEntries.WithLabelValues("batch").Set(float64(len(c.cache)))
		zap.L().Debug("batch cache invalidated", zap.String("key", key))
	}
}
