// Package memory provides process-local implementations of the storage ports.
package memory

import (
	"sort"
	"sync"

	"github.com/longregen/roomgate/internal/domain/models"
)

// DispatchStore keeps dispatch records in a sync.Map. Stored values are
// never mutated in place; each transition swaps in a fresh pointer so
// CompareAndSwap/CompareAndDelete can detect a concurrent change.
type DispatchStore struct {
	records sync.Map // room name -> *models.DispatchRecord
}

func NewDispatchStore() *DispatchStore {
	return &DispatchStore{}
}

func (s *DispatchStore) Reserve(rec models.DispatchRecord, replace func(existing models.DispatchRecord) bool) bool {
	next := &rec
	for {
		actual, loaded := s.records.LoadOrStore(rec.Room, next)
		if !loaded {
			return true
		}

		current := actual.(*models.DispatchRecord)
		if replace == nil || !replace(*current) {
			return false
		}

		// Lost the race if another caller swapped or deleted it first; retry.
		if s.records.CompareAndSwap(rec.Room, current, next) {
			return true
		}
	}
}

func (s *DispatchStore) Update(rec models.DispatchRecord) bool {
	for {
		actual, ok := s.records.Load(rec.Room)
		if !ok {
			return false
		}

		current := actual.(*models.DispatchRecord)
		if current.Token != rec.Token {
			return false
		}

		next := rec
		if s.records.CompareAndSwap(rec.Room, current, &next) {
			return true
		}
	}
}

func (s *DispatchStore) Release(room string, token uint64) bool {
	for {
		actual, ok := s.records.Load(room)
		if !ok {
			return false
		}

		current := actual.(*models.DispatchRecord)
		if current.Token != token {
			return false
		}

		if s.records.CompareAndDelete(room, current) {
			return true
		}
	}
}

func (s *DispatchStore) Delete(room string) (models.DispatchRecord, bool) {
	actual, ok := s.records.LoadAndDelete(room)
	if !ok {
		return models.DispatchRecord{}, false
	}
	return *actual.(*models.DispatchRecord), true
}

func (s *DispatchStore) DeleteIf(match func(models.DispatchRecord) bool) []models.DispatchRecord {
	var removed []models.DispatchRecord
	s.records.Range(func(key, value any) bool {
		current := value.(*models.DispatchRecord)
		if match(*current) && s.records.CompareAndDelete(key, current) {
			removed = append(removed, *current)
		}
		return true
	})
	return removed
}

func (s *DispatchStore) Get(room string) (models.DispatchRecord, bool) {
	actual, ok := s.records.Load(room)
	if !ok {
		return models.DispatchRecord{}, false
	}
	return *actual.(*models.DispatchRecord), true
}

// List returns a snapshot of all records ordered by room name.
func (s *DispatchStore) List() []models.DispatchRecord {
	records := make([]models.DispatchRecord, 0)
	s.records.Range(func(_, value any) bool {
		records = append(records, *value.(*models.DispatchRecord))
		return true
	})
	sort.Slice(records, func(i, j int) bool {
		return records[i].Room < records[j].Room
	})
	return records
}

func (s *DispatchStore) Len() int {
	n := 0
	s.records.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
