package points

import (
	"strings"
	"time"
)

// Tag groups a ledger entry for presentation. Exactly one tag applies to
// every entry.
type Tag string

const (
	TagRedeem   Tag = "redeem"
	TagCashback Tag = "cashback"
	TagEarn     Tag = "earn"
	TagBonus    Tag = "bonus"
	TagDeduct   Tag = "deduct"
)

// LedgerEntry is one append-only record of a points balance change.
type LedgerEntry struct {
	Reason    string    `json:"reason"`
	Points    float64   `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary is the backend's view of a user's balance. Total and Entries are
// fetched together and kept consistent by re-fetch, never by local
// arithmetic over Entries.
type Summary struct {
	UserID  string        `json:"user_id"`
	Total   float64       `json:"total"`
	Entries []LedgerEntry `json:"entries"`
}

// Categorize maps an entry's free-text reason and signed delta onto a tag.
// Rules are evaluated in order, first match wins; a negative delta always
// wins over any keyword.
func Categorize(reason string, pts float64) Tag {
	if pts < 0 {
		return TagDeduct
	}
	r := strings.ToLower(reason)
	switch {
	case strings.Contains(r, "cashback"):
		return TagCashback
	case strings.Contains(r, "redeem"), strings.Contains(r, "voucher"):
		return TagRedeem
	case strings.Contains(r, "bonus"), strings.Contains(r, "welcome"), strings.Contains(r, "referral"):
		return TagBonus
	default:
		return TagEarn
	}
}
