package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/pkg/metrics"
	"rentora/internal/pkg/sanitize"
	"rentora/internal/repository"
)

const (
	actorOwner = "owner"
	actorSweep = "sweep"
)

// exclusionViolation is the postgres SQLSTATE raised when an insert hits the
// no-double-booking exclusion constraint.
const exclusionViolation = "23P01"

type Service struct {
	bookings     BookingRepository
	listings     ListingRepository
	availability AvailabilityChecker
	notifier     NotificationSender
	metrics      *metrics.Metrics
	log          logger.Logger
	now          func() time.Time
}

func NewService(
	bookings BookingRepository,
	listings ListingRepository,
	availability AvailabilityChecker,
	notifier NotificationSender,
	m *metrics.Metrics,
	log logger.Logger,
) *Service {
	return &Service{
		bookings:     bookings,
		listings:     listings,
		availability: availability,
		notifier:     notifier,
		metrics:      m,
		log:          log,
		now:          time.Now,
	}
}

// Create registers a pending booking request for a guest. The listing owner
// has the approval window to confirm or decline before the expiry sweep
// settles it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Booking, error) {
	if req.GuestCount <= 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", ErrValidation)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	today := s.today()
	if !req.CheckIn.After(today) {
		return nil, fmt.Errorf("%w: check-in must be a future date", ErrValidation)
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", ErrNotFound, req.ListingID)
		}
		return nil, err
	}
	if !listing.IsActive || listing.IsDraft {
		return nil, fmt.Errorf("%w: listing is not open for booking", ErrValidation)
	}
	if listing.OwnerID == req.UserID {
		return nil, fmt.Errorf("%w: owners block their own calendar instead of booking it", ErrValidation)
	}
	if req.GuestCount > listing.MaxGuests {
		return nil, fmt.Errorf("%w: listing sleeps at most %d guests", ErrValidation, listing.MaxGuests)
	}

	conflict, err := s.availability.HasConflict(ctx, listing.ID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrNotAvailable
	}

	b := &domain.Booking{
		UserID:     req.UserID,
		ListingID:  listing.ID,
		Status:     domain.BookingPending,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestCount: req.GuestCount,
		TotalPrice: totalPrice(listing.NightlyPrice, req.CheckIn, req.CheckOut),
		Comment:    sanitize.CappedOrDefault(req.Comment, domain.CommentMaxLen, "-", domain.DefaultComment),
		IsActive:   true,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if isDateConflict(err) {
			return nil, ErrNoLongerAvailable
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
	}
	_ = s.notifier.NotifyBookingRequested(ctx, b, listing)
	return b, nil
}

// CreateBlock inserts a placeholder booking that reserves the owner's own
// listing. Placeholders never expire and send no notifications.
func (s *Service) CreateBlock(ctx context.Context, req BlockRequest) (*domain.Booking, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}

	listing, err := s.listings.GetByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: listing %d", ErrNotFound, req.ListingID)
		}
		return nil, err
	}
	if listing.OwnerID != req.OwnerID {
		return nil, ErrForbidden
	}

	conflict, err := s.availability.HasConflict(ctx, listing.ID, req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrNotAvailable
	}

	b := &domain.Booking{
		UserID:     req.OwnerID,
		ListingID:  listing.ID,
		Status:     domain.BookingPlaceholder,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		GuestCount: 1,
		TotalPrice: 0,
		Comment:    "owner calendar block",
		IsActive:   true,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if isDateConflict(err) {
			return nil, ErrNoLongerAvailable
		}
		return nil, err
	}
	return b, nil
}

// Confirm settles a pending booking in the guest's favor. Only the listing
// owner may confirm, and only the first confirm/decline wins.
func (s *Service) Confirm(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error) {
	b, err := s.getActive(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, b.ListingID, actorID); err != nil {
		return nil, err
	}

	changed, err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, actorOwner, "")
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyResolved
	}

	b.Status = domain.BookingConfirmed
	_ = s.notifier.NotifyBookingConfirmed(ctx, b)
	return b, nil
}

// Decline settles a pending booking against the guest. The reason is scrubbed
// of contact details, capped, and defaulted when blank.
func (s *Service) Decline(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error) {
	b, err := s.getActive(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, b.ListingID, actorID); err != nil {
		return nil, err
	}

	reason = sanitize.CappedOrDefault(reason, domain.CommentMaxLen, "-", domain.DefaultDeclineReason)
	changed, err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingDeclined, actorOwner, reason)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrAlreadyResolved
	}

	b.Status = domain.BookingDeclined
	b.DeclineReason = reason
	_ = s.notifier.NotifyBookingDeclined(ctx, b, reason)
	return b, nil
}

// Expire moves a pending booking past the approval window to expired. Called
// by the reconciliation sweep; losing the race to an owner decision is not an
// error, the sweep just moves on.
func (s *Service) Expire(ctx context.Context, b *domain.Booking) (bool, error) {
	changed, err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingPending, domain.BookingExpired, actorSweep, "approval window elapsed")
	if err != nil || !changed {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.BookingsExpired.Inc()
	}
	b.Status = domain.BookingExpired
	_ = s.notifier.NotifyBookingExpired(ctx, b)
	return true, nil
}

// Complete moves a confirmed booking whose stay has ended to completed.
func (s *Service) Complete(ctx context.Context, b *domain.Booking) (bool, error) {
	changed, err := s.bookings.TransitionStatus(ctx, b.ID, domain.BookingConfirmed, domain.BookingCompleted, actorSweep, "check-out date passed")
	if err != nil || !changed {
		return false, err
	}
	if s.metrics != nil {
		s.metrics.BookingsCompleted.Inc()
	}
	b.Status = domain.BookingCompleted
	_ = s.notifier.NotifyBookingCompleted(ctx, b)
	return true, nil
}

// NormalizePlaceholder rewrites a booking where the requester turned out to
// be the listing owner into a placeholder. No notifications are sent.
func (s *Service) NormalizePlaceholder(ctx context.Context, b *domain.Booking) (bool, error) {
	return s.bookings.TransitionStatus(ctx, b.ID, b.Status, domain.BookingPlaceholder, "system", "owner self-booking normalized")
}

func (s *Service) GetByID(ctx context.Context, bookingID, requesterID int64) (*domain.Booking, error) {
	b, err := s.getActive(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != requesterID {
		if err := s.requireOwner(ctx, b.ListingID, requesterID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *Service) ListForListing(ctx context.Context, listingID, requesterID int64) ([]domain.Booking, error) {
	if err := s.requireOwner(ctx, listingID, requesterID); err != nil {
		return nil, err
	}
	return s.bookings.ListByListing(ctx, listingID)
}

// History returns the audit trail of status transitions, visible to either
// party of the booking.
func (s *Service) History(ctx context.Context, bookingID, requesterID int64) ([]domain.BookingTransition, error) {
	if _, err := s.GetByID(ctx, bookingID, requesterID); err != nil {
		return nil, err
	}
	return s.bookings.ListTransitions(ctx, bookingID)
}

func (s *Service) getActive(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !b.IsActive {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *Service) requireOwner(ctx context.Context, listingID, userID int64) error {
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) today() time.Time {
	n := s.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

func totalPrice(nightly float64, checkIn, checkOut time.Time) float64 {
	nights := checkOut.Sub(checkIn).Hours() / 24
	return math.Round(nightly*nights*100) / 100
}

func isDateConflict(err error) bool {
	if errors.Is(err, repository.ErrDateRangeConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}
