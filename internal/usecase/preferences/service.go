// Package preferences owns the sort key and category filter selection.
package preferences

import (
	"strconv"
	"sync"

	"github.com/kiosk-labs/storefront/internal/domain"
)

// Service holds the user's view preferences. Preferences live only in
// memory; they reset to defaults each session.
type Service struct {
	mu    sync.RWMutex
	prefs domain.Preferences
}

// New creates a preference store with the session defaults: price sort,
// no category filter.
func New() *Service {
	return &Service{prefs: domain.Preferences{SortBy: domain.SortPrice}}
}

// SetSortBy sets the sort key. Unknown keys degrade to SortNone — the
// pipeline treats that as "keep input order", never an error.
func (s *Service) SetSortBy(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs.SortBy = domain.ParseSortKey(key)
}

// SetCategoryFilter sets the category constraint from selector text.
// The selector speaks strings while product categories are numeric, so
// the value is coerced here, at the boundary. nil or unparseable input
// clears the filter.
func (s *Service) SetCategoryFilter(raw *string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw == nil {
		s.prefs.CategoryFilter = nil
		return
	}
	n, err := strconv.Atoi(*raw)
	if err != nil {
		s.prefs.CategoryFilter = nil
		return
	}
	s.prefs.CategoryFilter = &n
}

// Snapshot returns a copy of the current preferences.
func (s *Service) Snapshot() domain.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.prefs
	if s.prefs.CategoryFilter != nil {
		v := *s.prefs.CategoryFilter
		out.CategoryFilter = &v
	}
	return out
}
