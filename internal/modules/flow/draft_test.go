package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDraftStore_PutGetDelete(t *testing.T) {
	store := NewDraftStore(time.Hour)

	_, ok := store.Get(1)
	assert.False(t, ok)

	store.Put(&Draft{UserID: 1, Step: StepCheckIn})
	d, ok := store.Get(1)
	assert.True(t, ok)
	assert.Equal(t, StepCheckIn, d.Step)

	store.Delete(1)
	_, ok = store.Get(1)
	assert.False(t, ok)
}

func TestDraftStore_ExpiresStaleDrafts(t *testing.T) {
	store := NewDraftStore(time.Hour)
	d := &Draft{UserID: 1, Step: StepCheckIn}
	store.Put(d)
	d.UpdatedAt = time.Now().Add(-2 * time.Hour)

	_, ok := store.Get(1)
	assert.False(t, ok)
}

func TestDraftStore_PurgeExpired(t *testing.T) {
	store := NewDraftStore(time.Hour)
	fresh := &Draft{UserID: 1}
	stale := &Draft{UserID: 2}
	store.Put(fresh)
	store.Put(stale)
	stale.UpdatedAt = time.Now().Add(-3 * time.Hour)

	removed := store.PurgeExpired(time.Now())

	assert.Equal(t, 1, removed)
	_, ok := store.Get(1)
	assert.True(t, ok)
	_, ok = store.Get(2)
	assert.False(t, ok)
}

func TestDraft_ToggleType(t *testing.T) {
	d := &Draft{}
	d.ToggleType(2)
	d.ToggleType(5)
	d.ToggleType(3)
	assert.Equal(t, []int64{2, 5, 3}, d.TypeIDs)

	d.ToggleType(5)
	assert.Equal(t, []int64{2, 3}, d.TypeIDs)

	d.ToggleType(5)
	assert.Equal(t, []int64{2, 3, 5}, d.TypeIDs)
}
