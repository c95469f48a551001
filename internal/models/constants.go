package models

import (
	"fmt"
	"strings"
)

// SwipeDirection is the classified intent of a gesture on the head card.
type SwipeDirection string

const (
	SwipeLeft  SwipeDirection = "LEFT"  // skip
	SwipeRight SwipeDirection = "RIGHT" // view details
	SwipeUp    SwipeDirection = "UP"    // exclude the item's lead tags
	SwipeDown  SwipeDirection = "DOWN"  // save to menu
	SwipeNone  SwipeDirection = "NONE"  // gesture below threshold
)

const (
	EventSwipe         = "swipe"
	EventTaboosUpdated = "taboos_updated"
	EventMenuRemoved   = "menu_removed"
	EventBatchIngested = "batch_ingested"
	EventLogin         = "login"
)

const (
	SourceGemini    = "gemini"
	SourceSynthetic = "synthetic"
)

// Valid reports whether d is one of the four actionable directions.
func (d SwipeDirection) Valid() bool {
	switch d {
	case SwipeLeft, SwipeRight, SwipeUp, SwipeDown:
		return true
	}
	return false
}

// ParseSwipeDirection accepts a direction name in any case.
func ParseSwipeDirection(s string) (SwipeDirection, error) {
	d := SwipeDirection(strings.ToUpper(strings.TrimSpace(s)))
	if !d.Valid() {
		return SwipeNone, fmt.Errorf("unknown swipe direction %q", s)
	}
	return d, nil
}
