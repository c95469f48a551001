// Package session ties one user's store, recommendation gateway and
// analytics together and decides when the queue is refilled.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lucsky/cuid"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodswipe/internal/events"
	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
	"github.com/chrisdamba/foodswipe/internal/store"
)

var (
	ErrBlankName  = errors.New("name must not be blank")
	ErrEmptyQueue = errors.New("no card to swipe")
)

type Identity struct {
	ID   string
	Name string
}

// Login starts an identity for name. Surrounding space is dropped.
func Login(name string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, ErrBlankName
	}
	return Identity{ID: cuid.New(), Name: name}, nil
}

// Recorder receives analytics events. *events.Recorder satisfies it.
type Recorder interface {
	Record(e events.Event)
}

type nopRecorder struct{}

func (nopRecorder) Record(events.Event) {}

// Outcome describes an applied swipe. Detail is set for RIGHT.
type Outcome struct {
	Direction models.SwipeDirection
	Item      models.CandidateItem
	Detail    *models.Detail
}

type Session struct {
	Identity

	store    *store.Store
	fetcher  store.Fetcher
	recorder Recorder
	location *models.Location
	log      zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	refills sync.WaitGroup
}

// New builds a session. loc may be nil, in which case fetches use the
// gateway's default coordinate; rec may be nil to disable analytics.
func New(id Identity, st *store.Store, f store.Fetcher, rec Recorder, loc *models.Location) *Session {
	if rec == nil {
		rec = nopRecorder{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		Identity: id,
		store:    st,
		fetcher:  f,
		recorder: rec,
		location: loc,
		log:      logging.With("session").With().Str("session", id.ID).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.recorder.Record(events.LoginEvent())
	return s
}

// Current is the card on top of the deck.
func (s *Session) Current() (models.CandidateItem, bool) {
	return s.store.Head()
}

// Swipe applies dir to the current card and starts a background refill when
// the queue runs low.
func (s *Session) Swipe(dir models.SwipeDirection) (Outcome, error) {
	head, ok := s.store.Head()
	if !ok {
		return Outcome{}, ErrEmptyQueue
	}
	return s.SwipeItem(dir, head)
}

// SwipeItem applies dir to a specific queued item.
func (s *Session) SwipeItem(dir models.SwipeDirection, item models.CandidateItem) (Outcome, error) {
	if err := s.store.ApplySwipe(dir, item); err != nil {
		return Outcome{}, fmt.Errorf("swipe %s on %s: %w", dir, item.ID, err)
	}

	out := Outcome{Direction: dir, Item: item}
	if dir == models.SwipeRight {
		d := item.Detail()
		out.Detail = &d
	}
	s.log.Debug().Str("direction", string(dir)).Str("item", item.ID).Msg("swipe applied")
	s.recorder.Record(events.SwipeEvent(dir, item))

	s.RefillAsync()
	return out, nil
}

// SetTaboos replaces the taboo text, drops the queue and fetches a fresh batch
// in the background.
func (s *Session) SetTaboos(text string) {
	s.store.SetTaboos(text)
	s.recorder.Record(events.TaboosUpdatedEvent(text))
	s.RefillAsync()
}

// RemoveFromMenu drops a saved item. Unknown ids are ignored.
func (s *Session) RemoveFromMenu(id string) bool {
	var removed models.CandidateItem
	for _, it := range s.store.Menu() {
		if it.ID == id {
			removed = it
			break
		}
	}
	if !s.store.RemoveFromMenu(id) {
		return false
	}
	s.recorder.Record(events.MenuRemovedEvent(removed))
	return true
}

// Refill fetches synchronously when the queue is low and returns the number
// of items added.
func (s *Session) Refill(ctx context.Context) int {
	return s.refill(ctx, false)
}

// Refresh fetches a batch regardless of queue length. It still yields to a
// fetch already in flight.
func (s *Session) Refresh(ctx context.Context) int {
	return s.refill(ctx, true)
}

// RefillAsync starts a background refill when one is wanted.
func (s *Session) RefillAsync() {
	if !s.store.NeedsRefill() || s.ctx.Err() != nil {
		return
	}
	s.refills.Add(1)
	go func() {
		defer s.refills.Done()
		s.refill(s.ctx, false)
	}()
}

// refill runs one fetch. When the taboos changed while it was in flight the
// batch is discarded, and since the edit could not start its own fetch, this
// one goes again under the new taboos.
func (s *Session) refill(ctx context.Context, force bool) int {
	for {
		gen := s.store.Generation()
		ran, added := s.store.Refill(ctx, s.fetcher, s.location, force)
		if !ran {
			return 0
		}
		if s.store.Generation() != gen && ctx.Err() == nil {
			s.log.Debug().Msg("taboos changed during fetch, fetching again")
			force = false
			continue
		}
		s.log.Info().Int("added", added).Int("queued", len(s.store.Queue())).Msg("queue refilled")
		s.recorder.Record(events.BatchIngestedEvent(added, s.live()))
		return added
	}
}

func (s *Session) live() bool {
	if l, ok := s.fetcher.(interface{ Live() bool }); ok {
		return l.Live()
	}
	return true
}

// Wait blocks until background refills finish.
func (s *Session) Wait() {
	s.refills.Wait()
}

// Close cancels background refills and waits for them to return.
func (s *Session) Close() {
	s.cancel()
	s.refills.Wait()
}

func (s *Session) Queue() []models.CandidateItem   { return s.store.Queue() }
func (s *Session) Menu() []models.CandidateItem    { return s.store.Menu() }
func (s *Session) MenuCalories() int               { return s.store.MenuCalories() }
func (s *Session) Preferences() models.Preferences { return s.store.Preferences() }
func (s *Session) Loading() bool                   { return s.store.InFlight() }
