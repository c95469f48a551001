package recommend

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/chrisdamba/foodswipe/internal/logging"
)

type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// breakerSource stops calling a failing source for a while; during that
// window the gateway serves fallback content without touching the network.
type breakerSource struct {
	next Source
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerSource(next Source, cfg BreakerConfig) Source {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	log := logging.With("breaker")

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}
	return &breakerSource{next: next, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (b *breakerSource) Generate(ctx context.Context, req Request) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, req)
	})
}

// State reports the breaker state (closed, half-open, open).
func (b *breakerSource) State() string {
	return b.cb.State().String()
}
