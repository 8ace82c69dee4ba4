package search

import (
	"time"

	"rentora/internal/domain"
)

// PriceTier is the fixed price-filter choice offered by the wizard.
type PriceTier string

const (
	TierAny     PriceTier = "any"
	TierBudget  PriceTier = "budget"  // up to 2999
	TierMid     PriceTier = "mid"     // 3000 to 5999
	TierPremium PriceTier = "premium" // 6000 and up
)

// Bounds returns the inclusive nightly-price range of the tier. Nil means
// unbounded on that side.
func (t PriceTier) Bounds() (min, max *float64) {
	f := func(v float64) *float64 { return &v }
	switch t {
	case TierBudget:
		return f(0), f(2999)
	case TierMid:
		return f(3000), f(5999)
	case TierPremium:
		return f(6000), nil
	default:
		return nil, nil
	}
}

func (t PriceTier) Valid() bool {
	switch t {
	case TierAny, TierBudget, TierMid, TierPremium:
		return true
	}
	return false
}

type Request struct {
	UserID    int64
	CheckIn   time.Time
	CheckOut  time.Time
	TypeIDs   []int64
	PriceTier PriceTier
}

// Result is one executed search: the surviving candidates in catalog order
// and the persisted session that lets the caller page through them.
type Result struct {
	SessionID int64            `json:"session_id"`
	Total     int              `json:"total"`
	Listings  []domain.Listing `json:"listings"`
}

// Page is one browse position inside a session.
type Page struct {
	SessionID int64           `json:"session_id"`
	Index     int             `json:"index"`
	Total     int             `json:"total"`
	Listing   *domain.Listing `json:"listing"`
}

type searchBody struct {
	CheckIn   string  `json:"check_in" binding:"required"`
	CheckOut  string  `json:"check_out" binding:"required"`
	TypeIDs   []int64 `json:"type_ids"`
	PriceTier string  `json:"price_tier"`
}
