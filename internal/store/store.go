// Package store holds the session's memory records in process memory and
// keeps their ordering consistent across mutations. Nothing here is
// persisted; the store starts empty and is lost with the process.
package store

import (
	"strings"

	"github.com/rcliao/memory-cartography/internal/model"
)

// Store is an ordered collection of memory records plus the active sort
// criterion. It is owned by a single caller; the view layer serializes
// access.
type Store struct {
	records   []model.Memory
	criterion model.SortBy
}

// New returns an empty store. The initial criterion is relevance: until
// the user picks otherwise, the server's order stands.
func New() *Store {
	return &Store{criterion: model.SortByRelevance}
}

// Len reports the number of records.
func (s *Store) Len() int { return len(s.records) }

// Criterion returns the active sort criterion.
func (s *Store) Criterion() model.SortBy { return s.criterion }

// SetCriterion changes the active criterion and re-sorts the store.
func (s *Store) SetCriterion(by model.SortBy) {
	s.criterion = by
	s.records = Sort(s.records, by)
}

// ReplaceAll swaps in a search response verbatim. The server is trusted
// to have ordered the results; unlike the other mutation paths there is
// no local re-sort here.
func (s *Store) ReplaceAll(records []model.Memory) {
	s.records = make([]model.Memory, len(records))
	copy(s.records, records)
}

// Snapshot returns a copy of the current ordering for rendering.
func (s *Store) Snapshot() []model.Memory {
	out := make([]model.Memory, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns a copy of the record with the given ID.
func (s *Store) Get(id int) (model.Memory, bool) {
	for i := range s.records {
		if s.records[i].ID == id {
			return s.records[i], true
		}
	}
	return model.Memory{}, false
}

// ApplyWeight overwrites the matching record's weight with the server's
// authoritative value and re-sorts the store under the active criterion.
// Duplicate IDs all receive the new weight. Reports whether any record
// matched.
func (s *Store) ApplyWeight(id int, newWeight float64) bool {
	matched := false
	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].SetWeight(newWeight)
			matched = true
		}
	}
	if matched {
		s.records = Sort(s.records, s.criterion)
	}
	return matched
}

// MergeRecord overwrites every field of the matching record with the
// server's updated copy. Location edits never trigger a re-sort.
func (s *Store) MergeRecord(updated model.Memory) bool {
	matched := false
	for i := range s.records {
		if s.records[i].ID == updated.ID {
			s.records[i] = updated
			matched = true
		}
	}
	return matched
}

// UpdateLocation applies the partial form of a location edit: only the
// location field changes, and the title is rewritten from the previous
// location. No re-sort.
func (s *Store) UpdateLocation(id int, newLocation string) bool {
	matched := false
	for i := range s.records {
		if s.records[i].ID == id {
			r := &s.records[i]
			r.Title = RewriteTitle(r.Title, r.Location, newLocation, r.Date)
			r.Location = newLocation
			matched = true
		}
	}
	return matched
}

// RewriteTitle derives the new display title after a location edit. When
// the previous location was the unknown sentinel the title is rebuilt
// from a template; otherwise the first occurrence of the old location
// inside the title is textually replaced. The textual replace is a
// carried-over heuristic: it misfires when the old location text recurs
// elsewhere in the title.
func RewriteTitle(title, oldLocation, newLocation, date string) string {
	if oldLocation == model.UnknownLocation {
		return newLocation + " - " + date
	}
	return strings.Replace(title, oldLocation, newLocation, 1)
}
