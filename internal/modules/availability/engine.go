package availability

import (
	"context"
	"time"

	"rentora/internal/domain"
)

// BookingCounter is the slice of the booking repository the engine needs.
type BookingCounter interface {
	CountOverlapping(ctx context.Context, listingID int64, checkIn, checkOut time.Time, statuses []domain.BookingStatus) (int64, error)
}

// Overlaps reports whether two half-open [start, end) ranges intersect.
// Back-to-back ranges (one ends exactly where the other starts) do not.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Engine answers "is this listing free for this range". It holds no state
// and performs no writes; a data-access failure is returned to the caller,
// which must NOT treat it as "no conflict".
type Engine struct {
	bookings BookingCounter
}

func NewEngine(bookings BookingCounter) *Engine {
	return &Engine{bookings: bookings}
}

// HasConflict tests the candidate range against every blocking-status
// reservation on the listing.
func (e *Engine) HasConflict(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error) {
	cnt, err := e.bookings.CountOverlapping(ctx, listingID, checkIn, checkOut, domain.BlockingStatuses)
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}
