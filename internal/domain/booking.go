package domain

import "time"

type BookingStatus string

const (
	BookingPending     BookingStatus = "pending"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingPlaceholder BookingStatus = "placeholder"
	BookingDeclined    BookingStatus = "declined"
	BookingExpired     BookingStatus = "expired"
	BookingCompleted   BookingStatus = "completed"
)

// BlockingStatuses are the statuses that reserve a date range against new
// overlapping bookings. Declined/expired/completed bookings release it.
var BlockingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingPlaceholder,
}

func (s BookingStatus) IsBlocking() bool {
	for _, b := range BlockingStatuses {
		if s == b {
			return true
		}
	}
	return false
}

// IsResolved reports whether the owner decision (or a sweep) already settled
// this booking. Resolved bookings reject further confirm/decline attempts.
func (s BookingStatus) IsResolved() bool {
	return s != BookingPending
}

const (
	// CommentMaxLen caps guest comments and decline reasons (stored column size).
	CommentMaxLen = 255

	DefaultComment       = "No additional details"
	DefaultDeclineReason = "No reason given"
)

// Booking is a request to rent a listing for a half-open [CheckIn, CheckOut)
// date range. Rows are never deleted, only status-transitioned; is_active is
// an administrative kill switch outside the state machine.
type Booking struct {
	ID        int64 `json:"id"`
	UserID    int64 `json:"user_id" validate:"required"`
	ListingID int64 `json:"listing_id" validate:"required"`

	Status BookingStatus `json:"status"`

	CheckIn  time.Time `json:"check_in" validate:"required"`
	CheckOut time.Time `json:"check_out" validate:"required"`

	GuestCount int     `json:"guest_count" validate:"gt=0"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`

	Comment       string `json:"comment,omitempty"`
	DeclineReason string `json:"decline_reason,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `json:"user,omitempty"`
	Listing *Listing `json:"listing,omitempty"`
}

// Nights returns the number of nights in the booked range.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// BookingTransition is one append-only audit row written on every state
// machine transition.
type BookingTransition struct {
	ID         int64         `json:"id"`
	BookingID  int64         `json:"booking_id"`
	FromStatus BookingStatus `json:"from_status"`
	ToStatus   BookingStatus `json:"to_status"`
	Actor      string        `json:"actor"` // "owner", "guest", "sweep", "system"
	Reason     string        `json:"reason,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}
