package memory

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/longregen/roomgate/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchStore_ReserveOnlyOnce(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()

	require.True(t, store.Reserve(models.NewReservation("alpha", 1, now), nil))
	assert.False(t, store.Reserve(models.NewReservation("alpha", 2, now), nil))

	rec, ok := store.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, uint64(1), rec.Token)
}

func TestDispatchStore_ReserveReplacesWhenAllowed(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()

	store.Reserve(models.NewReservation("alpha", 1, now), nil)
	replaced := store.Reserve(models.NewReservation("alpha", 2, now), func(existing models.DispatchRecord) bool {
		return existing.Token == 1
	})

	require.True(t, replaced)
	rec, _ := store.Get("alpha")
	assert.Equal(t, uint64(2), rec.Token)
}

func TestDispatchStore_ConcurrentReserve(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()

	const callers = 64
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(token uint64) {
			defer wg.Done()
			<-start
			if store.Reserve(models.NewReservation("race", token, now), nil) {
				wins.Add(1)
			}
		}(uint64(i + 1))
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 1, store.Len())
}

func TestDispatchStore_UpdateRequiresMatchingToken(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()
	rec := models.NewReservation("alpha", 5, now)
	store.Reserve(rec, nil)

	stale := models.NewReservation("alpha", 4, now).Confirm("old", now)
	assert.False(t, store.Update(stale))

	assert.True(t, store.Update(rec.Confirm("AD_1", now)))
	got, _ := store.Get("alpha")
	assert.Equal(t, models.DispatchStateConfirmed, got.State)
	assert.Equal(t, "AD_1", got.DispatchID)

	assert.False(t, store.Update(models.NewReservation("missing", 1, now)))
}

func TestDispatchStore_ReleaseRequiresMatchingToken(t *testing.T) {
	store := NewDispatchStore()
	store.Reserve(models.NewReservation("alpha", 9, time.Now()), nil)

	assert.False(t, store.Release("alpha", 8))
	assert.Equal(t, 1, store.Len())

	assert.True(t, store.Release("alpha", 9))
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Release("alpha", 9))
}

func TestDispatchStore_DeleteIf(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()
	store.Reserve(models.NewReservation("a", 1, now), nil)
	store.Reserve(models.NewReservation("b", 2, now).Confirm("x", now), nil)
	store.Reserve(models.NewReservation("c", 3, now).Confirm("y", now), nil)

	removed := store.DeleteIf(func(rec models.DispatchRecord) bool {
		return rec.IsConfirmed()
	})

	assert.Len(t, removed, 2)
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("a")
	assert.True(t, ok)
}

func TestDispatchStore_ListSorted(t *testing.T) {
	store := NewDispatchStore()
	now := time.Now()
	for i, room := range []string{"delta", "alpha", "charlie"} {
		store.Reserve(models.NewReservation(room, uint64(i+1), now), nil)
	}

	records := store.List()
	require.Len(t, records, 3)
	assert.Equal(t, "alpha", records[0].Room)
	assert.Equal(t, "charlie", records[1].Room)
	assert.Equal(t, "delta", records[2].Room)

	rec, ok := store.Delete("alpha")
	assert.True(t, ok)
	assert.Equal(t, "alpha", rec.Room)
	_, ok = store.Delete("alpha")
	assert.False(t, ok)
}
