// Package availability tracks which date ranges are committed on each
// listing and serialises reservations per listing.
//
// Ranges on one listing are kept sorted by check-in and pairwise disjoint,
// so a candidate range can only collide with the last committed range that
// starts before the candidate ends. Every listing owns its own RWMutex:
// reservations on different listings never contend, and availability
// queries on a listing only wait for an in-flight reservation on that same
// listing.
package availability

import (
	"sort"
	"sync"

	"staybook/pkg/model"
)

type rangeSet struct {
	mu     sync.RWMutex
	ranges []model.DateRange
}

// conflict returns the committed range overlapping r, if any. Caller holds mu.
func (s *rangeSet) conflict(r model.DateRange) (model.DateRange, bool) {
	i := s.insertionPoint(r)
	if i == 0 {
		return model.DateRange{}, false
	}
	pred := s.ranges[i-1]
	if pred.CheckOut.After(r.CheckIn) {
		return pred, true
	}
	return model.DateRange{}, false
}

// insertionPoint is the index of the first range starting at or after r.CheckOut.
func (s *rangeSet) insertionPoint(r model.DateRange) int {
	return sort.Search(len(s.ranges), func(i int) bool {
		return !s.ranges[i].CheckIn.Before(r.CheckOut)
	})
}

type Index struct {
	mu       sync.Mutex
	listings map[string]*rangeSet
}

func NewIndex() *Index {
	return &Index{listings: make(map[string]*rangeSet)}
}

// set returns the listing's range set, creating it when create is true.
// The map lock is held only for the lookup.
func (idx *Index) set(listingID string, create bool) *rangeSet {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	s, ok := idx.listings[listingID]
	if !ok && create {
		s = &rangeSet{}
		idx.listings[listingID] = s
	}
	return s
}

// Query reports whether r is free on the listing. An invalid range is never free.
func (idx *Index) Query(listingID string, r model.DateRange) bool {
	if !r.Valid() {
		return false
	}

	s := idx.set(listingID, false)
	if s == nil {
		return true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, conflict := s.conflict(r)
	return !conflict
}

// Reserve commits r on the listing if no committed range overlaps it.
// The check and the insert happen under the listing's write lock, so of two
// concurrent overlapping reservations exactly one succeeds.
func (idx *Index) Reserve(listingID string, r model.DateRange) error {
	if listingID == "" {
		return ErrEmptyListing
	}
	if !r.Valid() {
		return ErrInvalidRange
	}

	s := idx.set(listingID, true)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, conflict := s.conflict(r); conflict {
		return &ConflictError{ListingID: listingID, Requested: r, Existing: existing}
	}

	i := s.insertionPoint(r)
	s.ranges = append(s.ranges, model.DateRange{})
	copy(s.ranges[i+1:], s.ranges[i:])
	s.ranges[i] = r
	return nil
}

// Release removes exactly r from the listing. It reports false when r was
// not committed, which leaves the listing untouched.
func (idx *Index) Release(listingID string, r model.DateRange) bool {
	s := idx.set(listingID, false)
	if s == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := sort.Search(len(s.ranges), func(i int) bool {
		return !s.ranges[i].CheckIn.Before(r.CheckIn)
	})
	if i == len(s.ranges) || !s.ranges[i].Equal(r) {
		return false
	}

	s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
	return true
}

// Load seeds a listing from persisted bookings. Ranges that overlap one
// already loaded are returned instead of being inserted, so a corrupt store
// cannot break the disjointness of the index.
func (idx *Index) Load(listingID string, ranges []model.DateRange) []model.DateRange {
	var rejected []model.DateRange
	for _, r := range ranges {
		if err := idx.Reserve(listingID, r); err != nil {
			rejected = append(rejected, r)
		}
	}
	return rejected
}

// Ranges returns a copy of the listing's committed ranges in check-in order.
func (idx *Index) Ranges(listingID string) []model.DateRange {
	s := idx.set(listingID, false)
	if s == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.DateRange, len(s.ranges))
	copy(out, s.ranges)
	return out
}
