// Package store owns the candidate queue, the saved menu and the session's
// accumulated preferences. It is the only mutation surface for swipe outcomes
// and preference edits.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
	"github.com/rs/zerolog"
)

// DefaultLowWaterMark is the queue length below which a refill is wanted.
const DefaultLowWaterMark = 2

// excludedTagCount is how many of an item's lead tags an UP swipe dislikes.
const excludedTagCount = 2

var (
	ErrInvalidDirection = errors.New("invalid swipe direction")
	ErrItemNotQueued    = errors.New("item is not in the queue")
)

// Store holds one session's queue, menu and preferences.
//
// Invariants: queue ids are unique, menu ids are unique, and the two are
// disjoint. dislikedTags never holds duplicates.
type Store struct {
	mu sync.Mutex

	queue    []models.CandidateItem
	menu     []models.CandidateItem
	taboos   string
	disliked []string
	seenTag  map[string]struct{}

	lowWaterMark int
	inFlight     bool
	generation   uint64

	log zerolog.Logger
}

func New(lowWaterMark int) *Store {
	if lowWaterMark <= 0 {
		lowWaterMark = DefaultLowWaterMark
	}
	return &Store{
		seenTag:      make(map[string]struct{}),
		lowWaterMark: lowWaterMark,
		log:          logging.With("store"),
	}
}

// ApplySwipe applies the outcome of a classified gesture on item, which must be
// in the queue. RIGHT has no state effect. On error the store is unchanged.
func (s *Store) ApplySwipe(direction models.SwipeDirection, item models.CandidateItem) error {
	if !direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.queueIndex(item.ID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotQueued, item.ID)
	}

	if direction == models.SwipeRight {
		return nil
	}

	// use the queued copy so the menu holds exactly what was ingested
	queued := s.queue[idx]
	s.queue = append(s.queue[:idx], s.queue[idx+1:]...)

	switch direction {
	case models.SwipeUp:
		s.dislike(queued.LeadTags(excludedTagCount))
	case models.SwipeDown:
		s.menu = append(s.menu, queued)
	}

	s.log.Debug().
		Str("direction", string(direction)).
		Str("item", queued.ID).
		Int("queue", len(s.queue)).
		Msg("swipe applied")
	return nil
}

func (s *Store) dislike(tags []string) {
	for _, tag := range tags {
		if _, ok := s.seenTag[tag]; ok {
			continue
		}
		s.seenTag[tag] = struct{}{}
		s.disliked = append(s.disliked, tag)
	}
}

// SetTaboos replaces the free-text taboos and clears the queue so the next
// fetch runs against the new constraints.
func (s *Store) SetTaboos(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.taboos = text
	s.queue = nil
	s.generation++
}

// RemoveFromMenu drops the menu entry with the given id. Unknown ids are ignored.
func (s *Store) RemoveFromMenu(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.menu {
		if s.menu[i].ID == id {
			s.menu = append(s.menu[:i], s.menu[i+1:]...)
			return true
		}
	}
	return false
}

// NeedsRefill reports whether the queue is below the low-water mark and no
// fetch is outstanding.
func (s *Store) NeedsRefill() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) < s.lowWaterMark && !s.inFlight
}

// Ingest appends items whose ids are not already queued or saved, keeping
// their order. It returns how many were appended.
func (s *Store) Ingest(items []models.CandidateItem) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingest(items)
}

func (s *Store) ingest(items []models.CandidateItem) int {
	seen := make(map[string]struct{}, len(s.queue)+len(s.menu)+len(items))
	for _, it := range s.queue {
		seen[it.ID] = struct{}{}
	}
	for _, it := range s.menu {
		seen[it.ID] = struct{}{}
	}

	added := 0
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		s.queue = append(s.queue, it)
		added++
	}
	return added
}

func (s *Store) queueIndex(id string) int {
	for i := range s.queue {
		if s.queue[i].ID == id {
			return i
		}
	}
	return -1
}

// Head returns the card currently being interacted with.
func (s *Store) Head() (models.CandidateItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return models.CandidateItem{}, false
	}
	return s.queue[0], true
}

func (s *Store) Queue() []models.CandidateItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CandidateItem(nil), s.queue...)
}

func (s *Store) Menu() []models.CandidateItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CandidateItem(nil), s.menu...)
}

// MenuCalories sums the calories of every saved item.
func (s *Store) MenuCalories() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, it := range s.menu {
		total += it.Calories
	}
	return total
}

func (s *Store) Preferences() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferences()
}

func (s *Store) preferences() models.Preferences {
	return models.Preferences{
		Taboos:       s.taboos,
		DislikedTags: append([]string(nil), s.disliked...),
	}
}

// InFlight reports whether a fetch is outstanding.
func (s *Store) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}
