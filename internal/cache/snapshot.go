package cache

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/metrics"
	"github.com/recyloop/gateway/internal/repository"
	"github.com/recyloop/gateway/internal/status"
)

type SnapshotRepository interface {
	GetActiveSnapshots(ctx context.Context) ([]*repository.OrderSnapshot, error)
}

// SnapshotCache keeps the locally mirrored order snapshots of non-terminal
// orders so repeated reads do not hit Postgres. Terminal orders are evicted
// on write.
type SnapshotCache struct {
	mu    sync.RWMutex
	cache map[string]*repository.OrderSnapshot
	repo  SnapshotRepository
}

func NewSnapshotCache(repo SnapshotRepository) *SnapshotCache {
	return &SnapshotCache{
		cache: make(map[string]*repository.OrderSnapshot),
		repo:  repo,
	}
}

func (c *SnapshotCache) LoadInitialData(ctx context.Context) error {
	snapshots, err := c.repo.GetActiveSnapshots(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, snap := range snapshots {
		snapCopy := *snap
		c.cache[snap.OrderID] = &snapCopy
	}
	metrics.OrderSnapshotCacheItems.Set(float64(len(c.cache)))
	zap.L().Info("loaded active order snapshots into cache", zap.Int("count", len(c.cache)))
	return nil
}

func (c *SnapshotCache) Get(orderID string) (*repository.OrderSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, found := c.cache[orderID]
	if !found {
		return nil, false
	}
	snapCopy := *snap
	return &snapCopy, true
}

func (c *SnapshotCache) Set(snap *repository.OrderSnapshot) {
	if status.IsTerminal(status.Status(snap.Status)) {
		c.Delete(snap.OrderID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	snapCopy := *snap
	c.cache[snap.OrderID] = &snapCopy
	metrics.OrderSnapshotCacheItems.Set(float64(len(c.cache)))
}

func (c *SnapshotCache) Delete(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[orderID]; found {
		delete(c.cache, orderID)
		metrics.OrderSnapshotCacheItems.Set(float64(len(c.cache)))
	}
}
