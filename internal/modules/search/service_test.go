package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"rentora/internal/domain"
	"rentora/internal/pkg/logger"
)

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindCandidates(ctx context.Context, typeIDs []int64, priceMin, priceMax *float64) ([]domain.Listing, error) {
	args := m.Called(ctx, typeIDs, priceMin, priceMax)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Listing), args.Error(1)
}

func (m *MockCatalog) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockCatalog) ListTypes(ctx context.Context) ([]domain.ListingType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingType), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) HasConflict(ctx context.Context, listingID int64, checkIn, checkOut time.Time) (bool, error) {
	args := m.Called(ctx, listingID, checkIn, checkOut)
	return args.Bool(0), args.Error(1)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) Create(ctx context.Context, s *domain.SearchSession) error {
	args := m.Called(ctx, s)
	s.ID = 42
	return args.Error(0)
}

func (m *MockSessions) GetByID(ctx context.Context, id int64) (*domain.SearchSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchSession), args.Error(1)
}

func (m *MockSessions) UpdateCursor(ctx context.Context, id int64, index int) error {
	args := m.Called(ctx, id, index)
	return args.Error(0)
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func listing(id int64, price float64) domain.Listing {
	return domain.Listing{ID: id, OwnerID: 2, TypeID: 1, NightlyPrice: price, MaxGuests: 4, IsActive: true}
}

func newService(catalog *MockCatalog, availability *MockAvailability, sessions *MockSessions) *Service {
	return NewService(catalog, availability, sessions, logger.NewNop())
}

func TestPriceTierBounds(t *testing.T) {
	min, max := TierMid.Bounds()
	assert.Equal(t, float64(3000), *min)
	assert.Equal(t, float64(5999), *max)

	min, max = TierBudget.Bounds()
	assert.Equal(t, float64(0), *min)
	assert.Equal(t, float64(2999), *max)

	min, max = TierPremium.Bounds()
	assert.Equal(t, float64(6000), *min)
	assert.Nil(t, max)

	min, max = TierAny.Bounds()
	assert.Nil(t, min)
	assert.Nil(t, max)
}

func TestSearch_FiltersConflictingListings(t *testing.T) {
	catalog := new(MockCatalog)
	availability := new(MockAvailability)
	sessions := new(MockSessions)
	svc := newService(catalog, availability, sessions)

	checkIn := day(2026, time.September, 10)
	checkOut := day(2026, time.September, 12)
	candidates := []domain.Listing{listing(1, 3500), listing(2, 4000), listing(3, 5900)}

	catalog.On("FindCandidates", mock.Anything, []int64{1}, mock.Anything, mock.Anything).Return(candidates, nil)
	availability.On("HasConflict", mock.Anything, int64(1), checkIn, checkOut).Return(false, nil)
	availability.On("HasConflict", mock.Anything, int64(2), checkIn, checkOut).Return(true, nil)
	availability.On("HasConflict", mock.Anything, int64(3), checkIn, checkOut).Return(false, nil)
	sessions.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.SearchSession) bool {
		return s.UserID == 7 && len(s.ListingIDs) == 2 && s.ListingIDs[0] == 1 && s.ListingIDs[1] == 3 && s.CurrentIndex == 0
	})).Return(nil)

	res, err := svc.Search(context.Background(), Request{
		UserID:    7,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		TypeIDs:   []int64{1},
		PriceTier: TierMid,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), res.SessionID)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []int64{1, 3}, []int64{res.Listings[0].ID, res.Listings[1].ID})
}

func TestSearch_PersistsFilterDocument(t *testing.T) {
	catalog := new(MockCatalog)
	availability := new(MockAvailability)
	sessions := new(MockSessions)
	svc := newService(catalog, availability, sessions)

	catalog.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Listing{}, nil)

	var captured *domain.SearchSession
	sessions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*domain.SearchSession)
	}).Return(nil)

	_, err := svc.Search(context.Background(), Request{
		UserID:    7,
		CheckIn:   day(2026, time.September, 10),
		CheckOut:  day(2026, time.September, 12),
		TypeIDs:   []int64{2, 3},
		PriceTier: TierBudget,
	})

	assert.NoError(t, err)
	var filters domain.SearchFilters
	assert.NoError(t, json.Unmarshal(captured.Filters, &filters))
	assert.Equal(t, "2026-09-10", filters.CheckIn)
	assert.Equal(t, "2026-09-12", filters.CheckOut)
	assert.Equal(t, []int64{2, 3}, filters.TypeIDs)
	assert.Equal(t, float64(2999), *filters.PriceMax)
}

func TestSearch_AvailabilityErrorAbortsSearch(t *testing.T) {
	catalog := new(MockCatalog)
	availability := new(MockAvailability)
	sessions := new(MockSessions)
	svc := newService(catalog, availability, sessions)

	boom := errors.New("connection reset")
	catalog.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Listing{listing(1, 3500)}, nil)
	availability.On("HasConflict", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, boom)

	_, err := svc.Search(context.Background(), Request{
		UserID:   7,
		CheckIn:  day(2026, time.September, 10),
		CheckOut: day(2026, time.September, 12),
	})

	assert.ErrorIs(t, err, boom)
	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSearch_RejectsReversedRange(t *testing.T) {
	svc := newService(new(MockCatalog), new(MockAvailability), new(MockSessions))

	_, err := svc.Search(context.Background(), Request{
		UserID:   7,
		CheckIn:  day(2026, time.September, 12),
		CheckOut: day(2026, time.September, 10),
	})

	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearch_ZeroResultsStillPersistsSession(t *testing.T) {
	catalog := new(MockCatalog)
	availability := new(MockAvailability)
	sessions := new(MockSessions)
	svc := newService(catalog, availability, sessions)

	catalog.On("FindCandidates", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]domain.Listing{}, nil)
	sessions.On("Create", mock.Anything, mock.Anything).Return(nil)

	res, err := svc.Search(context.Background(), Request{
		UserID:   7,
		CheckIn:  day(2026, time.September, 10),
		CheckOut: day(2026, time.September, 12),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	sessions.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestNext_AdvancesCursor(t *testing.T) {
	catalog := new(MockCatalog)
	availability := new(MockAvailability)
	sessions := new(MockSessions)
	svc := newService(catalog, availability, sessions)

	session := &domain.SearchSession{ID: 42, UserID: 7, ListingIDs: []int64{1, 3, 9}, CurrentIndex: 0}
	sessions.On("GetByID", mock.Anything, int64(42)).Return(session, nil)
	sessions.On("UpdateCursor", mock.Anything, int64(42), 1).Return(nil)
	l := listing(3, 4000)
	catalog.On("GetByID", mock.Anything, int64(3)).Return(&l, nil)

	page, err := svc.Next(context.Background(), 42, 7)

	assert.NoError(t, err)
	assert.Equal(t, 1, page.Index)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, int64(3), page.Listing.ID)
}

func TestNext_StopsAtLastResult(t *testing.T) {
	sessions := new(MockSessions)
	svc := newService(new(MockCatalog), new(MockAvailability), sessions)

	session := &domain.SearchSession{ID: 42, UserID: 7, ListingIDs: []int64{1, 3}, CurrentIndex: 1}
	sessions.On("GetByID", mock.Anything, int64(42)).Return(session, nil)

	_, err := svc.Next(context.Background(), 42, 7)

	assert.ErrorIs(t, err, ErrEndOfResults)
	sessions.AssertNotCalled(t, "UpdateCursor", mock.Anything, mock.Anything, mock.Anything)
}

func TestPrev_StopsAtFirstResult(t *testing.T) {
	sessions := new(MockSessions)
	svc := newService(new(MockCatalog), new(MockAvailability), sessions)

	session := &domain.SearchSession{ID: 42, UserID: 7, ListingIDs: []int64{1, 3}, CurrentIndex: 0}
	sessions.On("GetByID", mock.Anything, int64(42)).Return(session, nil)

	_, err := svc.Prev(context.Background(), 42, 7)

	assert.ErrorIs(t, err, ErrEndOfResults)
}

func TestCurrent_RejectsForeignSession(t *testing.T) {
	sessions := new(MockSessions)
	svc := newService(new(MockCatalog), new(MockAvailability), sessions)

	session := &domain.SearchSession{ID: 42, UserID: 7, ListingIDs: []int64{1}}
	sessions.On("GetByID", mock.Anything, int64(42)).Return(session, nil)

	_, err := svc.Current(context.Background(), 42, 99)

	assert.ErrorIs(t, err, ErrForbidden)
}
