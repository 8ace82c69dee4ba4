package domain

import "time"

// ListingType is a catalog entry (studio flat, one-bedroom, house, ...).
type ListingType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Listing is a rentable unit owned by one user. A listing stays in draft
// until the owner finishes the submission flow; drafts never show up in
// search results. Deletion is a soft is_active=false.
type Listing struct {
	ID           int64  `json:"id"`
	OwnerID      int64  `json:"owner_id" validate:"required"`
	TypeID       int64  `json:"type_id" validate:"required"`
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`

	NightlyPrice float64 `json:"nightly_price" validate:"gte=0"`
	MaxGuests    int     `json:"max_guests" validate:"gt=0"`
	Description  string  `json:"description,omitempty"`

	// RewardPercent is the commission rate shown to the owner in the
	// booking-request notification. Accrual bookkeeping lives elsewhere.
	RewardPercent int `json:"reward_percent"`

	IsActive bool `json:"is_active"`
	IsDraft  bool `json:"is_draft"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Owner *User        `json:"owner,omitempty"`
	Type  *ListingType `json:"type,omitempty"`
}
