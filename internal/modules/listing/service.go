package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
	"rentora/internal/repository"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("listing not found")
	ErrForbidden  = errors.New("forbidden")
	// ErrHasActiveBookings: soft delete is refused while blocking bookings exist.
	ErrHasActiveBookings = errors.New("listing still has active bookings")
)

type Repository interface {
	Create(ctx context.Context, l *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Listing, error)
	Publish(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
}

type Service struct {
	listings Repository
	log      logger.Logger
}

func NewService(listings Repository, log logger.Logger) *Service {
	return &Service{listings: listings, log: log}
}

type CreateRequest struct {
	OwnerID       int64
	TypeID        int64
	Address       string
	ShortAddress  string
	NightlyPrice  float64
	MaxGuests     int
	Description   string
	RewardPercent int
}

// Create registers a new listing in draft state. Drafts stay out of search
// until the owner publishes them.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*domain.Listing, error) {
	if req.TypeID <= 0 {
		return nil, fmt.Errorf("%w: listing type is required", ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}
	if req.NightlyPrice < 0 {
		return nil, fmt.Errorf("%w: nightly price cannot be negative", ErrValidation)
	}
	if req.MaxGuests <= 0 {
		return nil, fmt.Errorf("%w: max guests must be positive", ErrValidation)
	}

	l := &domain.Listing{
		OwnerID:       req.OwnerID,
		TypeID:        req.TypeID,
		Address:       strings.TrimSpace(req.Address),
		ShortAddress:  strings.TrimSpace(req.ShortAddress),
		NightlyPrice:  req.NightlyPrice,
		MaxGuests:     req.MaxGuests,
		Description:   req.Description,
		RewardPercent: req.RewardPercent,
		IsActive:      true,
		IsDraft:       true,
	}
	if err := s.listings.Create(ctx, l); err != nil {
		return nil, err
	}
	s.log.Info("listing created", "listing_id", l.ID, "owner_id", l.OwnerID)
	return l, nil
}

// Publish promotes a draft into search visibility.
func (s *Service) Publish(ctx context.Context, listingID, ownerID int64) (*domain.Listing, error) {
	l, err := s.owned(ctx, listingID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := s.listings.Publish(ctx, l.ID); err != nil {
		return nil, err
	}
	l.IsDraft = false
	return l, nil
}

// Deactivate soft-deletes a listing. Refused while the listing still has
// bookings in a blocking status.
func (s *Service) Deactivate(ctx context.Context, listingID, ownerID int64) error {
	l, err := s.owned(ctx, listingID, ownerID)
	if err != nil {
		return err
	}
	if err := s.listings.Deactivate(ctx, l.ID); err != nil {
		if errors.Is(err, repository.ErrListingHasActiveBookings) {
			return ErrHasActiveBookings
		}
		return err
	}
	return nil
}

func (s *Service) ListMine(ctx context.Context, ownerID int64) ([]domain.Listing, error) {
	return s.listings.ListByOwner(ctx, ownerID)
}

func (s *Service) owned(ctx context.Context, listingID, ownerID int64) (*domain.Listing, error) {
	l, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return l, nil
}
