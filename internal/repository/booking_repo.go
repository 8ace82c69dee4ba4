package repository

import (
	"context"
	"errors"
	"time"

	"rentora/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDateRangeConflict is returned when the in-transaction re-check finds an
// overlapping blocking booking between the caller's availability check and
// the insert.
var ErrDateRangeConflict = errors.New("date range conflict")

type BookingRepository struct {
	db *gorm.DB
	pg bool
}

func NewBookingRepository(db *gorm.DB, postgres bool) *BookingRepository {
	return &BookingRepository{db: db, pg: postgres}
}

type bookingModel struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	UserID        int64     `gorm:"column:user_id;index"`
	ListingID     int64     `gorm:"column:listing_id;index"`
	Status        string    `gorm:"column:status;index"`
	CheckIn       time.Time `gorm:"column:check_in"`
	CheckOut      time.Time `gorm:"column:check_out"`
	GuestCount    int       `gorm:"column:guest_count"`
	TotalPrice    float64   `gorm:"column:total_price"`
	Comment       *string   `gorm:"column:comment;size:255"`
	DeclineReason *string   `gorm:"column:decline_reason;size:255"`
	IsActive      bool      `gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingTransitionModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	BookingID  int64     `gorm:"column:booking_id;index"`
	FromStatus string    `gorm:"column:from_status"`
	ToStatus   string    `gorm:"column:to_status"`
	Actor      string    `gorm:"column:actor"`
	Reason     *string   `gorm:"column:reason;size:255"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (bookingTransitionModel) TableName() string { return "booking_transitions" }

func blockingStatusStrings() []string {
	out := make([]string, 0, len(domain.BlockingStatuses))
	for _, s := range domain.BlockingStatuses {
		out = append(out, string(s))
	}
	return out
}

func toDomainBooking(m bookingModel) *domain.Booking {
	var comment, reason string
	if m.Comment != nil {
		comment = *m.Comment
	}
	if m.DeclineReason != nil {
		reason = *m.DeclineReason
	}

	return &domain.Booking{
		ID:            m.ID,
		UserID:        m.UserID,
		ListingID:     m.ListingID,
		Status:        domain.BookingStatus(m.Status),
		CheckIn:       m.CheckIn,
		CheckOut:      m.CheckOut,
		GuestCount:    m.GuestCount,
		TotalPrice:    m.TotalPrice,
		Comment:       comment,
		DeclineReason: reason,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var comment, reason *string
	if b.Comment != "" {
		v := b.Comment
		comment = &v
	}
	if b.DeclineReason != "" {
		v := b.DeclineReason
		reason = &v
	}

	return bookingModel{
		ID:            b.ID,
		UserID:        b.UserID,
		ListingID:     b.ListingID,
		Status:        string(b.Status),
		CheckIn:       b.CheckIn,
		CheckOut:      b.CheckOut,
		GuestCount:    b.GuestCount,
		TotalPrice:    b.TotalPrice,
		Comment:       comment,
		DeclineReason: reason,
		IsActive:      b.IsActive,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// CountOverlapping counts bookings on a listing whose half-open
// [check_in, check_out) range overlaps the given one and whose status is in
// the given set. Adjacent ranges (checkout == checkin) do not overlap.
func (r *BookingRepository) CountOverlapping(ctx context.Context, listingID int64, checkIn, checkOut time.Time, statuses []domain.BookingStatus) (int64, error) {
	ss := make([]string, 0, len(statuses))
	for _, s := range statuses {
		ss = append(ss, string(s))
	}

	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("listing_id = ? AND is_active = ? AND status IN ?", listingID, true, ss).
		Where("check_in < ? AND ? < check_out", checkOut, checkIn).
		Count(&cnt)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return cnt, nil
}

// Create inserts a booking inside one transaction: the listing row is locked
// (postgres), the overlap check is re-run against the blocking set, and the
// transition audit row is written. Losing the availability race returns
// ErrDateRangeConflict.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lq := tx
		if r.pg {
			lq = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var l listingModel
		if err := lq.First(&l, b.ListingID).Error; err != nil {
			return err
		}

		var cnt int64
		err := tx.Model(&bookingModel{}).
			Where("listing_id = ? AND is_active = ? AND status IN ?",
				b.ListingID, true, blockingStatusStrings()).
			Where("check_in < ? AND ? < check_out", b.CheckOut, b.CheckIn).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrDateRangeConflict
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)

		return tx.Create(&bookingTransitionModel{
			BookingID:  b.ID,
			FromStatus: "",
			ToStatus:   string(b.Status),
			Actor:      transitionActorFor(b.Status),
			CreatedAt:  time.Now(),
		}).Error
	})
}

func transitionActorFor(s domain.BookingStatus) string {
	if s == domain.BookingPlaceholder {
		return "owner"
	}
	return "guest"
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("listing_id = ? AND is_active = ?", listingID, true).
		Order("check_in").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

func toDomainBookings(rows []bookingModel) []domain.Booking {
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out
}

// TransitionStatus is a compare-and-swap: the booking moves from -> to only
// if it is still in the from status. Returns false when another actor (or a
// sweep) resolved it first. An audit row is appended on success.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.BookingStatus, actor, reason string) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"status":     string(to),
			"updated_at": time.Now(),
		}
		if reason != "" {
			updates["decline_reason"] = reason
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ? AND is_active = ?", id, string(from), true).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true

		var reasonPtr *string
		if reason != "" {
			v := reason
			reasonPtr = &v
		}
		return tx.Create(&bookingTransitionModel{
			BookingID:  id,
			FromStatus: string(from),
			ToStatus:   string(to),
			Actor:      actor,
			Reason:     reasonPtr,
			CreatedAt:  time.Now(),
		}).Error
	})
	return changed, err
}

// Deactivate is the administrative kill switch outside the state machine.
func (r *BookingRepository) Deactivate(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()}).Error
}

// ListPendingCreatedBefore returns active pending bookings created strictly
// before the cutoff. Used by the expiry sweep.
func (r *BookingRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ? AND created_at < ?",
			string(domain.BookingPending), true, cutoff).
		Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// ListConfirmedCheckedOutBefore returns active confirmed bookings whose stay
// ended before now. Used by the completion sweep.
func (r *BookingRepository) ListConfirmedCheckedOutBefore(ctx context.Context, now time.Time) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND is_active = ? AND check_out < ?",
			string(domain.BookingConfirmed), true, now).
		Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

// ListOwnerSelfBlocks returns active bookings whose requester is the listing
// owner but whose status is not yet placeholder. Used by the normalization
// sweep so self-blocks never surface as ordinary bookings.
func (r *BookingRepository) ListOwnerSelfBlocks(ctx context.Context) ([]domain.Booking, error) {
	var rows []bookingModel
	tx := r.db.WithContext(ctx).
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("bookings.user_id = listings.owner_id").
		Where("bookings.is_active = ? AND bookings.status <> ?",
			true, string(domain.BookingPlaceholder)).
		Order("bookings.id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBookings(rows), nil
}

func (r *BookingRepository) ListTransitions(ctx context.Context, bookingID int64) ([]domain.BookingTransition, error) {
	var rows []bookingTransitionModel
	tx := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("id").Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.BookingTransition, 0, len(rows))
	for _, m := range rows {
		t := domain.BookingTransition{
			ID:         m.ID,
			BookingID:  m.BookingID,
			FromStatus: domain.BookingStatus(m.FromStatus),
			ToStatus:   domain.BookingStatus(m.ToStatus),
			Actor:      m.Actor,
			CreatedAt:  m.CreatedAt,
		}
		if m.Reason != nil {
			t.Reason = *m.Reason
		}
		out = append(out, t)
	}
	return out, nil
}
