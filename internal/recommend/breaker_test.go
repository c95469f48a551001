package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/foodswipe/internal/models"
)

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	src := &stubSource{err: errors.New("503 from upstream")}
	guarded := NewBreakerSource(src, BreakerConfig{Name: "test", MaxFailures: 2, Timeout: time.Minute})
	g := NewGateway(guarded)

	for i := 0; i < 5; i++ {
		assertFallback(t, g.Fetch(context.Background(), models.Preferences{}, nil))
	}

	// the open breaker short-circuits remaining calls
	assert.Equal(t, 2, src.calls())
	assert.Equal(t, "open", guarded.(*breakerSource).State())
}

func TestBreakerRecoversAfterTimeout(t *testing.T) {
	src := &stubSource{err: errors.New("boom")}
	guarded := NewBreakerSource(src, BreakerConfig{Name: "test", MaxFailures: 1, Timeout: 10 * time.Millisecond})
	g := NewGateway(guarded)

	assertFallback(t, g.Fetch(context.Background(), models.Preferences{}, nil))
	require.Equal(t, "open", guarded.(*breakerSource).State())

	time.Sleep(20 * time.Millisecond)
	src.mu.Lock()
	src.err = nil
	src.text = `[{"name":"Tacos","calories":560,"tags":["mexican"]}]`
	src.mu.Unlock()

	items := g.Fetch(context.Background(), models.Preferences{}, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "Tacos", items[0].Name)
	assert.Equal(t, "closed", guarded.(*breakerSource).State())
}

func TestFailureReason(t *testing.T) {
	g := NewGateway(&stubSource{text: "{}"})
	_, err := g.fetch(context.Background(), models.Preferences{}, nil)
	assert.Equal(t, "not_array", failureReason(err))

	g = NewGateway(&stubSource{text: "[{"})
	_, err = g.fetch(context.Background(), models.Preferences{}, nil)
	assert.Equal(t, "parse", failureReason(err))

	_, err = NewGateway(nil).fetch(context.Background(), models.Preferences{}, nil)
	assert.Equal(t, "no_credential", failureReason(err))

	open := NewBreakerSource(&stubSource{err: errors.New("x")}, BreakerConfig{MaxFailures: 1, Timeout: time.Minute})
	g = NewGateway(open)
	_, _ = g.fetch(context.Background(), models.Preferences{}, nil)
	_, err = g.fetch(context.Background(), models.Preferences{}, nil)
	assert.Equal(t, "breaker_open", failureReason(err))

	_, err = NewGateway(&stubSource{err: errors.New("reset")}).fetch(context.Background(), models.Preferences{}, nil)
	assert.Equal(t, "transport", failureReason(err))
}
