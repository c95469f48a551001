// Package recommend fetches candidate dishes from an external
// recommendation source. The gateway never fails: every error on the way is
// logged and replaced by the fixed fallback batch.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
)

const DefaultBatchSize = 5

var (
	// ErrUnavailable wraps every failure to produce live recommendations.
	ErrUnavailable = errors.New("recommendations unavailable")
	// ErrNoCredential is returned when a remote source has no access credential.
	ErrNoCredential = errors.New("no recommendation credential configured")
)

// Request is what a Source receives for one fetch.
type Request struct {
	Prompt      string
	Location    models.Location
	Preferences models.Preferences
	Count       int
}

// Source returns the raw text answer for a request. Text may be wrapped in
// markdown fences.
type Source interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type Gateway struct {
	source     Source
	batchSize  int
	defaultLoc models.Location
	timeout    time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

type Option func(*Gateway)

func WithBatchSize(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.batchSize = n
		}
	}
}

func WithDefaultLocation(loc models.Location) Option {
	return func(g *Gateway) { g.defaultLoc = loc }
}

// WithTimeout bounds each source call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) { g.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// NewGateway builds a gateway over source. A nil source means no credential
// is configured and every fetch is served from the fallback batch.
func NewGateway(source Source, opts ...Option) *Gateway {
	g := &Gateway{
		source:     source,
		batchSize:  DefaultBatchSize,
		defaultLoc: models.DefaultLocation,
		now:        time.Now,
		log:        logging.With("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// New builds a gateway from configuration. The Gemini source is only created
// when a credential is present; its calls are guarded by a circuit breaker.
func New(ctx context.Context, cfg *models.Config) *Gateway {
	opts := []Option{
		WithBatchSize(cfg.BatchSize),
		WithDefaultLocation(cfg.FallbackLocation()),
		WithTimeout(cfg.RequestTimeout),
	}
	log := logging.With("gateway")

	var source Source
	switch cfg.Source {
	case models.SourceSynthetic:
		source = NewSyntheticSource(int64(cfg.Seed))
	default:
		gemini, err := NewGeminiSource(ctx, GeminiConfig{APIKey: cfg.APIKey, Model: cfg.Model})
		switch {
		case errors.Is(err, ErrNoCredential):
			log.Warn().Msg("no API key found, serving fallback recommendations")
		case err != nil:
			log.Error().Err(err).Msg("failed to create Gemini source, serving fallback recommendations")
		default:
			source = NewBreakerSource(gemini, BreakerConfig{
				Name:        "gemini",
				MaxFailures: cfg.BreakerMaxFailures,
				Timeout:     cfg.BreakerTimeout,
			})
		}
	}
	return NewGateway(source, opts...)
}

// Live reports whether the gateway has a source to query.
func (g *Gateway) Live() bool {
	return g.source != nil
}

// Fetch returns a batch of candidates for prefs near loc, substituting the
// default coordinate when loc is nil. It always returns a usable batch.
func (g *Gateway) Fetch(ctx context.Context, prefs models.Preferences, loc *models.Location) (items []models.CandidateItem) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Error().Interface("panic", r).Str("reason", "panic").Msg("recommendation source panicked, serving fallback")
			items = Fallback()
		}
	}()

	items, err := g.fetch(ctx, prefs, loc)
	if err != nil {
		g.log.Warn().Err(err).Str("reason", failureReason(err)).Msg("serving fallback recommendations")
		return Fallback()
	}
	g.log.Debug().Int("items", len(items)).Msg("fetched recommendations")
	return items
}

func (g *Gateway) fetch(ctx context.Context, prefs models.Preferences, loc *models.Location) ([]models.CandidateItem, error) {
	if g.source == nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, ErrNoCredential)
	}

	target := g.defaultLoc
	if loc != nil {
		target = *loc
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.source.Generate(ctx, Request{
		Prompt:      buildPrompt(prefs, g.batchSize),
		Location:    target,
		Preferences: prefs.Clone(),
		Count:       g.batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return parseCandidates(text, g.now())
}

// failureReason names the cause of a fallback for logs.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredential):
		return "no_credential"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, errEmptyResponse), errors.Is(err, errMalformed):
		return "parse"
	case errors.Is(err, errNotArray):
		return "not_array"
	default:
		return "transport"
	}
}
