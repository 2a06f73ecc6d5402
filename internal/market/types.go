package market

import (
	"time"

	"github.com/recyloop/gateway/internal/status"
)

// ItemName carries the bilingual display name used by the storefront.
type ItemName struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// Unit of measure for a recyclable material.
type Unit string

const (
	UnitKilogram Unit = "kg"
	UnitPiece    Unit = "piece"
)

// CartItem is one line of the active shopping session. AvailableQty is the
// quantity the backend reported when the item was added; it may be stale and
// is only consulted as the last availability fallback.
type CartItem struct {
	ID           string   `json:"id"`
	Name         ItemName `json:"name"`
	CategoryID   string   `json:"category_id"`
	Quantity     float64  `json:"quantity"`
	UnitPrice    float64  `json:"unit_price"`
	Unit         Unit     `json:"unit"`
	AvailableQty *float64 `json:"available_qty,omitempty"`
}

type LineItem struct {
	ItemID    string   `json:"item_id"`
	Name      ItemName `json:"name"`
	Quantity  float64  `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Unit      Unit     `json:"unit"`
}

// Address is snapshotted onto the order at creation time.
type Address struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	City  string `json:"city"`
	Notes string `json:"notes,omitempty"`
}

type StatusChange struct {
	Status    status.Status `json:"status"`
	ChangedAt time.Time     `json:"changed_at"`
	Note      string        `json:"note,omitempty"`
}

// Order mirrors the backend's order document. Status always equals the
// status of the last History entry.
type Order struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []LineItem     `json:"items"`
	Address   Address        `json:"address"`
	Status    status.Status  `json:"status"`
	History   []StatusChange `json:"history"`
	CourierID *string        `json:"courier_id,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemStock is one row of the backend's batch availability response. Quantity
// is a pointer because the backend omits it for unlimited materials.
type ItemStock struct {
	ItemID   string   `json:"item_id"`
	Name     ItemName `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
}
