package inventory

import (
	"go.uber.org/zap"

	"github.com/recyloop/gateway/internal/cache"
	"github.com/recyloop/gateway/internal/market"
	"github.com/recyloop/gateway/internal/metrics"
	"github.com/recyloop/gateway/internal/status"
)

// Source identifies which tier resolved an availability check. SourceNone
// means no tier had a defined quantity; the check then passes optimistically
// and the backend re-validates at order creation.
type Source string

const (
	SourceExempt   Source = "exempt"
	SourceBatch    Source = "batch"
	SourceDetail   Source = "detail"
	SourceEmbedded Source = "embedded"
	SourceNone     Source = "none"
)

// Availability is the outcome of one check. AvailableQty is only meaningful
// when Source is batch, detail, or embedded.
type Availability struct {
	Available    bool    `json:"available"`
	AvailableQty float64 `json:"available_qty,omitempty"`
	Source       Source  `json:"source"`
}

// Checker decides whether a requested quantity of a cart item can be
// fulfilled, consulting progressively less specific sources. It never makes
// a network call and never fails: missing data degrades to the next tier.
type Checker struct {
	batch  *cache.BatchCache
	detail *cache.DetailCache
	logger *zap.Logger
}

func NewChecker(batch *cache.BatchCache, detail *cache.DetailCache, logger *zap.Logger) *Checker {
	return &Checker{
		batch:  batch,
		detail: detail,
		logger: logger,
	}
}

type lookup struct {
	source Source
	fn     func() (float64, bool)
}

// Check runs the ordered fallback chain for one cart line. Only buyers are
// subject to inventory limits; every other role passes immediately. cartIDs
// is the full id set of the active cart, used to address the batch cache.
func (c *Checker) Check(role status.Role, cartIDs []string, item market.CartItem, requested float64) Availability {
	if role != status.RoleBuyer {
		c.logger.Debug("availability check exempt",
			zap.String("role", string(role)),
			zap.String("item_id", item.ID),
			zap.Float64("requested", requested),
		)
		metrics.AvailabilityChecksTotal.WithLabelValues(string(SourceExempt)).Inc()
		return Availability{Available: true, Source: SourceExempt}
	}

	chain := []lookup{
		{SourceBatch, func() (float64, bool) { return c.fromBatch(cartIDs, role, item.ID) }},
		{SourceDetail, func() (float64, bool) { return c.fromDetail(item.Name) }},
		{SourceEmbedded, func() (float64, bool) { return fromEmbedded(item) }},
	}

	for _, l := range chain {
		qty, ok := l.fn()
		if !ok {
			continue
		}
		available := qty >= requested
		c.logger.Debug("availability check resolved",
			zap.String("item_id", item.ID),
			zap.String("source", string(l.source)),
			zap.Float64("requested", requested),
			zap.Float64("available_qty", qty),
			zap.Bool("available", available),
		)
		metrics.AvailabilityChecksTotal.WithLabelValues(string(l.source)).Inc()
		return Availability{Available: available, AvailableQty: qty, Source: l.source}
	}

	// No tier had a defined quantity. Blocking checkout on a cache miss is
	// worse than an optimistic pass the backend re-validates at commit time.
	c.logger.Debug("availability check unresolved, passing optimistically",
		zap.String("item_id", item.ID),
		zap.Float64("requested", requested),
	)
	metrics.AvailabilityChecksTotal.WithLabelValues(string(SourceNone)).Inc()
	return Availability{Available: true, Source: SourceNone}
}

func (c *Checker) fromBatch(cartIDs []string, role status.Role, itemID string) (float64, bool) {
	stock, found := c.batch.Get(cache.BatchKey(cartIDs, role), itemID)
	if !found || stock.Quantity == nil {
		return 0, false
	}
	return *stock.Quantity, true
}

func (c *Checker) fromDetail(name market.ItemName) (float64, bool) {
	stock, found := c.detail.Get(name)
	if !found || stock.Quantity == nil {
		return 0, false
	}
	return *stock.Quantity, true
}

func fromEmbedded(item market.CartItem) (float64, bool) {
	if item.AvailableQty == nil {
		return 0, false
	}
	return *item.AvailableQty, true
}
