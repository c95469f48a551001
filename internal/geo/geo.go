// Package geo supplies the user's coordinate. A location that cannot be
// obtained is never an error to callers: Resolve absorbs it into nil, and the
// recommendation gateway substitutes its default.
package geo

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisdamba/foodswipe/internal/logging"
	"github.com/chrisdamba/foodswipe/internal/models"
)

var ErrLocationDenied = errors.New("location permission denied")

type Provider interface {
	Locate(ctx context.Context) (*models.Location, error)
}

// Static reports a fixed coordinate, or ErrLocationDenied when disabled.
type Static struct {
	Enabled  bool
	Location models.Location
}

// FromConfig builds a Static provider from the location settings.
func FromConfig(cfg *models.Config) Static {
	return Static{
		Enabled:  cfg.LocationEnabled,
		Location: models.Location{Lat: cfg.Latitude, Lon: cfg.Longitude},
	}
}

func (s Static) Locate(ctx context.Context) (*models.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.Enabled {
		return nil, ErrLocationDenied
	}
	if s.Location.Lat < -90 || s.Location.Lat > 90 || s.Location.Lon < -180 || s.Location.Lon > 180 {
		return nil, fmt.Errorf("coordinate out of range: %s", s.Location)
	}
	loc := s.Location
	return &loc, nil
}

// Resolve asks p for a coordinate and returns nil when none is available.
func Resolve(ctx context.Context, p Provider) *models.Location {
	if p == nil {
		return nil
	}
	loc, err := p.Locate(ctx)
	if err != nil {
		log := logging.With("geo")
		log.Warn().Err(err).Msg("location unavailable, using default")
		return nil
	}
	log := logging.With("geo")
	log.Debug().Str("location", loc.String()).Msg("resolved user location")
	return loc
}
