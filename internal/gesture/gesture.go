// Package gesture turns raw drag offsets and key presses into swipe directions.
package gesture

import (
	"strings"

	"github.com/chrisdamba/foodswipe/internal/models"
)

// DefaultThreshold is the drag distance, in pixels, past which a release commits.
const DefaultThreshold = 100

// Classify maps a release offset to a direction using DefaultThreshold.
func Classify(dx, dy float64) models.SwipeDirection {
	return ClassifyWithThreshold(dx, dy, DefaultThreshold)
}

// ClassifyWithThreshold checks the horizontal axis before the vertical one, so
// a diagonal drag past both thresholds resolves to LEFT or RIGHT. Offsets at
// exactly the threshold do not commit.
func ClassifyWithThreshold(dx, dy, threshold float64) models.SwipeDirection {
	switch {
	case dx < -threshold:
		return models.SwipeLeft
	case dx > threshold:
		return models.SwipeRight
	case dy < -threshold:
		return models.SwipeUp
	case dy > threshold:
		return models.SwipeDown
	default:
		return models.SwipeNone
	}
}

var keyBindings = map[string]models.SwipeDirection{
	"h": models.SwipeLeft,
	"a": models.SwipeLeft,
	"l": models.SwipeRight,
	"d": models.SwipeRight,
	"k": models.SwipeUp,
	"w": models.SwipeUp,
	"j": models.SwipeDown,
	"s": models.SwipeDown,
}

// ParseKey maps a key or direction name to a direction. Matching ignores
// case and surrounding space.
func ParseKey(key string) (models.SwipeDirection, bool) {
	if dir, ok := keyBindings[strings.ToLower(strings.TrimSpace(key))]; ok {
		return dir, true
	}
	dir, err := models.ParseSwipeDirection(key)
	return dir, err == nil
}
