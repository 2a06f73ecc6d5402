package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/status"
)

func qty(v float64) *float64 {
	return &v
}

func newTestChecker() (*Checker, *cache.BatchCache, *cache.DetailCache) {
	batch := cache.NewBatchCache()
	detail := cache.NewDetailCache()
	return NewChecker(batch, detail, zap.NewNop()), batch, detail
}

func TestCheckNonBuyerAlwaysAvailable(t *testing.T) {
	checker, _, _ := newTestChecker()

	item := market.CartItem{ID: "item-1", Quantity: 9999}
	for _, role := range []status.Role{status.RoleCustomer, status.RoleAdmin, status.RoleDelivery} {
		result := checker.Check(role, []string{"item-1"}, item, 9999)
		assert.True(t, result.Available, "role %s", role)
		assert.Equal(t, SourceExempt, result.Source)
	}
}

func TestCheckBatchCacheWinsOverDetail(t *testing.T) {
	checker, batch, detail := newTestChecker()

	item := market.CartItem{
		ID:   "item-1",
		Name: market.ItemName{En: "Copper Wire", Ar: "سلك نحاس"},
	}
	cartIDs := []string{"item-2", "item-1"}

	batch.Set(cache.BatchKey(cartIDs, status.RoleBuyer), []market.ItemStock{
		{ItemID: "item-1", Name: item.Name, Quantity: qty(3)},
	})
	detail.Set(market.ItemStock{ItemID: "item-1", Name: item.Name, Quantity: qty(50)})

	result := checker.Check(status.RoleBuyer, cartIDs, item, 5)
	assert.False(t, result.Available)
	assert.Equal(t, SourceBatch, result.Source)
	assert.Equal(t, float64(3), result.AvailableQty)
}

func TestCheckFallsBackToDetail(t *testing.T) {
	checker, _, detail := newTestChecker()

	item := market.CartItem{
		ID:   "item-1",
		Name: market.ItemName{En: "Scrap Aluminum"},
	}
	detail.Set(market.ItemStock{ItemID: "item-1", Name: item.Name, Quantity: qty(7)})

	result := checker.Check(status.RoleBuyer, []string{"item-1"}, item, 5)
	assert.True(t, result.Available)
	assert.Equal(t, SourceDetail, result.Source)
	assert.Equal(t, float64(7), result.AvailableQty)
}

func TestCheckFallsBackToEmbedded(t *testing.T) {
	checker, _, _ := newTestChecker()

	item := market.CartItem{
		ID:           "item-1",
		Name:         market.ItemName{En: "Cardboard"},
		AvailableQty: qty(12),
	}

	result := checker.Check(status.RoleBuyer, []string{"item-1"}, item, 10)
	assert.True(t, result.Available)
	assert.Equal(t, SourceEmbedded, result.Source)
	assert.Equal(t, float64(12), result.AvailableQty)
}

func TestCheckNoSourcePassesOptimistically(t *testing.T) {
	checker, _, _ := newTestChecker()

	item := market.CartItem{ID: "item-1", Name: market.ItemName{En: "Glass"}}

	result := checker.Check(status.RoleBuyer, []string{"item-1"}, item, 100)
	assert.True(t, result.Available)
	assert.Equal(t, SourceNone, result.Source)
}

func TestCheckBuyerScenario(t *testing.T) {
	// Requested 10, batch cache reports 8: unavailable. Same item with no
	// cached data but an embedded quantity of 12: available.
	checker, batch, _ := newTestChecker()

	item := market.CartItem{
		ID:   "item-1",
		Name: market.ItemName{En: "Mixed Paper"},
	}
	cartIDs := []string{"item-1"}

	batch.Set(cache.BatchKey(cartIDs, status.RoleBuyer), []market.ItemStock{
		{ItemID: "item-1", Name: item.Name, Quantity: qty(8)},
	})
	result := checker.Check(status.RoleBuyer, cartIDs, item, 10)
	assert.False(t, result.Available)
	assert.Equal(t, SourceBatch, result.Source)

	batch.Invalidate(cache.BatchKey(cartIDs, status.RoleBuyer))
	item.AvailableQty = qty(12)
	result = checker.Check(status.RoleBuyer, cartIDs, item, 10)
	assert.True(t, result.Available)
	assert.Equal(t, SourceEmbedded, result.Source)
}

func TestCheckSkipsBatchRowWithoutQuantity(t *testing.T) {
	checker, batch, _ := newTestChecker()

	item := market.CartItem{
		ID:           "item-1",
		Name:         market.ItemName{En: "Steel"},
		AvailableQty: qty(4),
	}
	cartIDs := []string{"item-1"}

	// The batch row exists but the backend omitted the quantity field; the
	// chain must move on rather than treat it as zero.
	batch.Set(cache.BatchKey(cartIDs, status.RoleBuyer), []market.ItemStock{
		{ItemID: "item-1", Name: item.Name},
	})

	result := checker.Check(status.RoleBuyer, cartIDs, item, 3)
	assert.True(t, result.Available)
	assert.Equal(t, SourceEmbedded, result.Source)
}
