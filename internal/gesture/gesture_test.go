package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrisdamba/foodswipe/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   models.SwipeDirection
	}{
		{"rest", 0, 0, models.SwipeNone},
		{"below threshold", 99, -99, models.SwipeNone},
		{"at threshold", 100, 100, models.SwipeNone},
		{"left", -101, 0, models.SwipeLeft},
		{"right", 150, 10, models.SwipeRight},
		{"up", 20, -130, models.SwipeUp},
		{"down", -20, 130, models.SwipeDown},
		{"diagonal prefers horizontal", -200, -200, models.SwipeLeft},
		{"diagonal right over down", 200, 300, models.SwipeRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.dx, tt.dy))
		})
	}
}

func TestClassifyWithThreshold(t *testing.T) {
	assert.Equal(t, models.SwipeUp, ClassifyWithThreshold(0, -11, 10))
	assert.Equal(t, models.SwipeNone, ClassifyWithThreshold(0, -11, 50))
}

func TestParseKey(t *testing.T) {
	for key, want := range map[string]models.SwipeDirection{
		"h": models.SwipeLeft, "A": models.SwipeLeft, " left ": models.SwipeLeft,
		"l": models.SwipeRight, "RIGHT": models.SwipeRight,
		"k": models.SwipeUp, "w": models.SwipeUp,
		"j": models.SwipeDown, "down": models.SwipeDown,
	} {
		got, ok := ParseKey(key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := ParseKey("x")
	assert.False(t, ok)
}
