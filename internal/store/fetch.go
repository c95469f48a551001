package store

import (
	"context"

	"github.com/chrisdamba/foodswipe/internal/models"
)

// Ticket is issued by BeginFetch and carries the preference snapshot the
// fetch must be made with.
type Ticket struct {
	Preferences models.Preferences
	generation  uint64
}

// Fetcher produces a batch of candidates. It never fails; failures surface
// as fallback content.
type Fetcher interface {
	Fetch(ctx context.Context, prefs models.Preferences, loc *models.Location) []models.CandidateItem
}

// BeginFetch marks a fetch as outstanding. It returns false when another
// fetch already is, in which case the caller must not fetch.
func (s *Store) BeginFetch() (Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return Ticket{}, false
	}
	s.inFlight = true
	return Ticket{Preferences: s.preferences(), generation: s.generation}, true
}

// CompleteFetch ingests the batch fetched under t and clears the in-flight
// flag. A batch fetched before the last taboo edit is discarded. It returns
// how many items were appended.
func (s *Store) CompleteFetch(t Ticket, items []models.CandidateItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inFlight = false
	if t.generation != s.generation {
		s.log.Info().
			Int("items", len(items)).
			Msg("discarding batch fetched under previous taboos")
		return 0
	}
	return s.ingest(items)
}

// Refill fetches one batch through f when the queue is below the low-water
// mark. force skips the low-water check but keeps the single-flight guard.
// It reports whether a fetch ran and how many items were appended.
func (s *Store) Refill(ctx context.Context, f Fetcher, loc *models.Location, force bool) (ran bool, added int) {
	if !force && !s.NeedsRefill() {
		return false, 0
	}
	t, ok := s.BeginFetch()
	if !ok {
		return false, 0
	}

	var items []models.CandidateItem
	defer func() { added = s.CompleteFetch(t, items) }()

	items = f.Fetch(ctx, t.Preferences, loc)
	return true, 0
}

// Generation changes every time the taboos are replaced. A fetch begun under
// one generation is discarded if it completes under another.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}
