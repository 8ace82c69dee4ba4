package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
)

const dateLayout = "2006-01-02"

type Service struct {
	catalog      ListingCatalog
	availability AvailabilityChecker
	sessions     SessionRepository
	log          logger.Logger
}

func NewService(catalog ListingCatalog, availability AvailabilityChecker, sessions SessionRepository, log logger.Logger) *Service {
	return &Service{
		catalog:      catalog,
		availability: availability,
		sessions:     sessions,
		log:          log,
	}
}

// Search runs one filtered availability search and persists it as a session.
// Candidates come back in catalog order (ascending id). An availability
// lookup failure aborts the whole search rather than reporting a listing as
// free.
func (s *Service) Search(ctx context.Context, req Request) (*Result, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("%w: check-out must be after check-in", ErrValidation)
	}
	if req.PriceTier == "" {
		req.PriceTier = TierAny
	}
	if !req.PriceTier.Valid() {
		return nil, fmt.Errorf("%w: unknown price tier %q", ErrValidation, req.PriceTier)
	}

	priceMin, priceMax := req.PriceTier.Bounds()
	candidates, err := s.catalog.FindCandidates(ctx, req.TypeIDs, priceMin, priceMax)
	if err != nil {
		return nil, err
	}

	available := make([]domain.Listing, 0, len(candidates))
	ids := make([]int64, 0, len(candidates))
	for i := range candidates {
		conflict, err := s.availability.HasConflict(ctx, candidates[i].ID, req.CheckIn, req.CheckOut)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		available = append(available, candidates[i])
		ids = append(ids, candidates[i].ID)
	}

	filters, err := json.Marshal(domain.SearchFilters{
		CheckIn:  req.CheckIn.Format(dateLayout),
		CheckOut: req.CheckOut.Format(dateLayout),
		TypeIDs:  req.TypeIDs,
		PriceMin: priceMin,
		PriceMax: priceMax,
	})
	if err != nil {
		return nil, err
	}

	session := &domain.SearchSession{
		UserID:     req.UserID,
		Filters:    filters,
		ListingIDs: ids,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	s.log.Info("search executed", "user_id", req.UserID, "session_id", session.ID, "results", len(ids))
	return &Result{SessionID: session.ID, Total: len(ids), Listings: available}, nil
}

// Current returns the listing at the session's cursor without moving it.
func (s *Service) Current(ctx context.Context, sessionID, userID int64) (*Page, error) {
	session, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.pageAt(ctx, session, session.CurrentIndex)
}

// Next advances the cursor one position and returns the listing there.
func (s *Service) Next(ctx context.Context, sessionID, userID int64) (*Page, error) {
	return s.move(ctx, sessionID, userID, 1)
}

// Prev moves the cursor one position back and returns the listing there.
func (s *Service) Prev(ctx context.Context, sessionID, userID int64) (*Page, error) {
	return s.move(ctx, sessionID, userID, -1)
}

func (s *Service) move(ctx context.Context, sessionID, userID int64, delta int) (*Page, error) {
	session, err := s.getOwned(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	index := session.CurrentIndex + delta
	if index < 0 || index >= len(session.ListingIDs) {
		return nil, ErrEndOfResults
	}
	if err := s.sessions.UpdateCursor(ctx, session.ID, index); err != nil {
		return nil, err
	}
	return s.pageAt(ctx, session, index)
}

func (s *Service) getOwned(ctx context.Context, sessionID, userID int64) (*domain.SearchSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

func (s *Service) pageAt(ctx context.Context, session *domain.SearchSession, index int) (*Page, error) {
	if len(session.ListingIDs) == 0 {
		return nil, ErrEndOfResults
	}
	if index < 0 || index >= len(session.ListingIDs) {
		return nil, ErrEndOfResults
	}
	listing, err := s.catalog.GetByID(ctx, session.ListingIDs[index])
	if err != nil {
		return nil, err
	}
	return &Page{
		SessionID: session.ID,
		Index:     index,
		Total:     len(session.ListingIDs),
		Listing:   listing,
	}, nil
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.ListingType, error) {
	return s.catalog.ListTypes(ctx)
}
