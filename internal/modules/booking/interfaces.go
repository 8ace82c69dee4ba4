package booking

import (
	"context"
	"time"

	"rentora/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error)
	TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, actor, reason string) (bool, error)
	ListTransitions(ctx context.Context, bookingID int64) ([]domain.BookingTransition, error)
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type AvailabilityChecker interface {
	HasConflict(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error)
}

type NotificationSender interface {
	NotifyBookingRequested(ctx context.Context, b *domain.Booking, l *domain.Listing) error
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking) error
	NotifyBookingDeclined(ctx context.Context, b *domain.Booking, reason string) error
	NotifyBookingExpired(ctx context.Context, b *domain.Booking) error
	NotifyBookingCompleted(ctx context.Context, b *domain.Booking) error
}
