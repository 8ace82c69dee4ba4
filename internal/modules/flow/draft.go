package flow

import (
	"sync"
	"time"
)

// Step is the wizard position a draft is waiting at.
type Step string

const (
	StepCheckIn    Step = "check_in"
	StepCheckOut   Step = "check_out"
	StepTypes      Step = "types"
	StepPriceTier  Step = "price_tier"
	StepBrowse     Step = "browse"
	StepGuestCount Step = "guest_count"
	StepComment    Step = "comment"
)

// Draft accumulates one user's wizard answers. It lives in the store from
// flow entry until commit, cancel or TTL expiry.
type Draft struct {
	UserID int64
	Step   Step

	CheckIn  time.Time
	CheckOut time.Time
	TypeIDs  []int64
	Tier     string

	SessionID int64
	ListingID int64

	GuestCount int

	UpdatedAt time.Time
}

// ToggleType flips a listing type in or out of the selection, keeping the
// selection order stable.
func (d *Draft) ToggleType(id int64) {
	for i, existing := range d.TypeIDs {
		if existing == id {
			d.TypeIDs = append(d.TypeIDs[:i], d.TypeIDs[i+1:]...)
			return
		}
	}
	d.TypeIDs = append(d.TypeIDs, id)
}

// DraftStore holds in-flight wizard drafts keyed by user id. One draft per
// user; starting a new flow replaces any previous one.
type DraftStore struct {
	mu     sync.Mutex
	drafts map[int64]*Draft
	ttl    time.Duration
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		drafts: make(map[int64]*Draft),
		ttl:    ttl,
	}
}

func (s *DraftStore) Get(userID int64) (*Draft, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[userID]
	if !ok {
		return nil, false
	}
	if time.Since(d.UpdatedAt) > s.ttl {
		delete(s.drafts, userID)
		return nil, false
	}
	return d, true
}

func (s *DraftStore) Put(d *Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.UpdatedAt = time.Now()
	s.drafts[d.UserID] = d
}

func (s *DraftStore) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
}

// PurgeExpired drops drafts idle past the TTL and reports how many were
// removed.
func (s *DraftStore) PurgeExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, d := range s.drafts {
		if now.Sub(d.UpdatedAt) > s.ttl {
			delete(s.drafts, id)
			removed++
		}
	}
	return removed
}
