package events

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/chrisdamba/foodswipe/internal/logging"
)

const recorderBuffer = 64

// Recorder stamps events with the session identity and writes them to an
// output on a background goroutine. A failing output is logged and never
// surfaces to the caller.
type Recorder struct {
	out       OutputDestination
	topic     string
	sessionID string
	username  string
	now       func() time.Time
	log       zerolog.Logger

	events chan Event
	done   chan struct{}

	mu     sync.Mutex
	closed bool

	statsMu sync.Mutex
	written int
	failed  int
}

func NewRecorder(out OutputDestination, topic, sessionID, username string) *Recorder {
	return newRecorder(out, topic, sessionID, username, time.Now)
}

func newRecorder(out OutputDestination, topic, sessionID, username string, now func() time.Time) *Recorder {
	r := &Recorder{
		out:       out,
		topic:     topic,
		sessionID: sessionID,
		username:  username,
		now:       now,
		log:       logging.With("events"),
		events:    make(chan Event, recorderBuffer),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues e. Events recorded after Close are dropped.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	e.Timestamp = r.now().UnixMilli()
	e.SessionID = r.sessionID
	e.Username = r.username
	r.events <- e
}

func (r *Recorder) run() {
	defer close(r.done)
	for e := range r.events {
		msg, err := json.Marshal(e)
		if err == nil {
			err = r.out.WriteMessage(r.topic, msg)
		}

		r.statsMu.Lock()
		if err != nil {
			r.failed++
		} else {
			r.written++
		}
		r.statsMu.Unlock()

		if err != nil {
			r.log.Warn().Err(err).Str("event", e.EventType).Msg("failed to record event")
		}
	}
}

// Stats reports how many events were written and how many failed.
func (r *Recorder) Stats() (written, failed int) {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.written, r.failed
}

// Close drains queued events and closes the output.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.events)
	r.mu.Unlock()

	<-r.done
	return r.out.Close()
}
