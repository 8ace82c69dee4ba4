package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SearchFilters is the structured filter document persisted with every
// executed search.
type SearchFilters struct {
	CheckIn  string  `json:"check_in"`
	CheckOut string  `json:"check_out"`
	TypeIDs  []int64 `json:"type_ids,omitempty"`
	PriceMin *float64 `json:"price_min,omitempty"`
	PriceMax *float64 `json:"price_max,omitempty"`
}

// SearchSession is the audit/pagination record of one executed search:
// the filters, the ordered result ids and a cursor for next/prev browsing.
// Rows are append-only; only CurrentIndex is ever updated.
type SearchSession struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`

	Filters    datatypes.JSON `json:"filters"`
	ListingIDs []int64        `json:"listing_ids"`

	CurrentIndex int `json:"current_index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
