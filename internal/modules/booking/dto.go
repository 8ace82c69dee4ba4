package booking

import "time"

// CreateRequest carries a guest's booking request. Dates are calendar
// days, midnight in the service timezone, check-out exclusive.
type CreateRequest struct {
	UserID     int64
	ListingID  int64
	CheckIn    time.Time
	CheckOut   time.Time
	GuestCount int
	Comment    string
}

// BlockRequest lets a listing owner block their own calendar.
type BlockRequest struct {
	OwnerID   int64
	ListingID int64
	CheckIn   time.Time
	CheckOut  time.Time
}

type createBookingBody struct {
	ListingID  int64  `json:"listing_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	GuestCount int    `json:"guest_count" binding:"required"`
	Comment    string `json:"comment"`
}

type blockBody struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
}

type declineBody struct {
	Reason string `json:"reason"`
}
