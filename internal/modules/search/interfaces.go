package search

import (
	"context"
	"time"

	"rentora/internal/domain"
)

type ListingCatalog interface {
	FindCandidates(ctx context.Context, typeIDs []int64, priceMin, priceMax *float64) ([]domain.Listing, error)
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	ListTypes(ctx context.Context) ([]domain.ListingType, error)
}

type AvailabilityChecker interface {
	HasConflict(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s *domain.SearchSession) error
	GetByID(ctx context.Context, id int64) (*domain.SearchSession, error)
	UpdateCursor(ctx context.Context, id int64, index int) error
}
