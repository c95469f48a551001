package store

import (
	"fmt"
	"testing"

	"github.com/chrisdamba/foodswipe/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, tags ...string) models.CandidateItem {
	return models.CandidateItem{
		ID:       id,
		Name:     "dish " + id,
		Calories: 100,
		Tags:     tags,
	}
}

func ids(items []models.CandidateItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func seeded(t *testing.T, items ...models.CandidateItem) *Store {
	t.Helper()
	s := New(DefaultLowWaterMark)
	require.Equal(t, len(items), s.Ingest(items))
	return s
}

func TestSwipeLeftSkips(t *testing.T) {
	s := seeded(t, item("a"), item("b"))

	require.NoError(t, s.ApplySwipe(models.SwipeLeft, item("a")))

	assert.Equal(t, []string{"b"}, ids(s.Queue()))
	assert.Empty(t, s.Menu())
	assert.Empty(t, s.Preferences().DislikedTags)
}

func TestSwipeRightKeepsQueue(t *testing.T) {
	s := seeded(t, item("a"), item("b"), item("c"))
	before := s.Queue()

	require.NoError(t, s.ApplySwipe(models.SwipeRight, item("b")))

	assert.Equal(t, before, s.Queue())
	head, ok := s.Head()
	require.True(t, ok)
	assert.Equal(t, "a", head.ID)

	// still interactive after the detail view closes
	require.NoError(t, s.ApplySwipe(models.SwipeDown, item("b")))
	assert.Equal(t, []string{"a", "c"}, ids(s.Queue()))
}

func TestSwipeUpDislikesLeadTags(t *testing.T) {
	s := seeded(t, item("a", "spicy", "thai", "noodles"), item("b", "thai", "curry"), item("c"))

	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("a", "spicy", "thai", "noodles")))
	assert.Equal(t, []string{"spicy", "thai"}, s.Preferences().DislikedTags)
	assert.NotContains(t, ids(s.Queue()), "a")

	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("b", "thai", "curry")))
	assert.Equal(t, []string{"spicy", "thai", "curry"}, s.Preferences().DislikedTags)

	// an item with no tags adds nothing
	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("c")))
	assert.Len(t, s.Preferences().DislikedTags, 3)
	assert.Empty(t, s.Queue())
}

func TestSwipeUpUsesQueuedTags(t *testing.T) {
	s := seeded(t, item("a", "pizza", "italian"))

	// the caller's copy is stale; the queued item decides
	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("a", "other")))
	assert.Equal(t, []string{"pizza", "italian"}, s.Preferences().DislikedTags)
}

func TestSwipeDownSavesOnce(t *testing.T) {
	a := item("a", "sushi")
	s := seeded(t, a, item("b"))

	require.NoError(t, s.ApplySwipe(models.SwipeDown, a))
	assert.Equal(t, []string{"a"}, ids(s.Menu()))
	assert.Equal(t, []string{"b"}, ids(s.Queue()))

	err := s.ApplySwipe(models.SwipeDown, a)
	assert.ErrorIs(t, err, ErrItemNotQueued)
	assert.Len(t, s.Menu(), 1)

	assert.True(t, s.RemoveFromMenu("a"))
	assert.Empty(t, s.Menu())
}

func TestInvalidDirectionLeavesStateUnchanged(t *testing.T) {
	s := seeded(t, item("a", "x", "y"))

	for _, d := range []models.SwipeDirection{models.SwipeNone, "", "SIDEWAYS", "left"} {
		err := s.ApplySwipe(d, item("a", "x", "y"))
		assert.ErrorIs(t, err, ErrInvalidDirection, "direction %q", d)
	}
	assert.Equal(t, []string{"a"}, ids(s.Queue()))
	assert.Empty(t, s.Menu())
	assert.Empty(t, s.Preferences().DislikedTags)
}

func TestSwipeOnUnknownItem(t *testing.T) {
	s := seeded(t, item("a"))

	for _, d := range []models.SwipeDirection{models.SwipeLeft, models.SwipeRight, models.SwipeUp, models.SwipeDown} {
		err := s.ApplySwipe(d, item("zzz", "tag"))
		assert.ErrorIs(t, err, ErrItemNotQueued)
	}
	assert.Equal(t, []string{"a"}, ids(s.Queue()))
	assert.Empty(t, s.Menu())
	assert.Empty(t, s.Preferences().DislikedTags)
}

func TestSetTaboosClearsQueue(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		s := New(DefaultLowWaterMark)
		for i := 0; i < n; i++ {
			s.Ingest([]models.CandidateItem{item(fmt.Sprint(i))})
		}
		s.SetTaboos("no pork")

		assert.Empty(t, s.Queue())
		assert.Equal(t, "no pork", s.Preferences().Taboos)
	}
}

func TestSetTaboosKeepsMenuAndDislikes(t *testing.T) {
	s := seeded(t, item("a", "beef"), item("b", "fish"), item("c"))
	require.NoError(t, s.ApplySwipe(models.SwipeDown, item("a")))
	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("b")))

	s.SetTaboos("vegetarian")
	s.SetTaboos("")

	assert.Equal(t, []string{"a"}, ids(s.Menu()))
	assert.Equal(t, []string{"fish"}, s.Preferences().DislikedTags)
	assert.Equal(t, "", s.Preferences().Taboos)
}

func TestRemoveFromMenuUnknownIsNoop(t *testing.T) {
	s := seeded(t, item("a"))
	require.NoError(t, s.ApplySwipe(models.SwipeDown, item("a")))

	assert.False(t, s.RemoveFromMenu("missing"))
	assert.Equal(t, []string{"a"}, ids(s.Menu()))
}

func TestIngestDeduplicates(t *testing.T) {
	s := seeded(t, item("a"), item("b"))
	require.NoError(t, s.ApplySwipe(models.SwipeDown, item("a")))

	added := s.Ingest([]models.CandidateItem{item("a"), item("b"), item("c"), item("c"), item("d")})

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"b", "c", "d"}, ids(s.Queue()))
	assert.Equal(t, []string{"a"}, ids(s.Menu()))
}

func TestIngestNeverDuplicatesAcrossQueueAndMenu(t *testing.T) {
	s := New(DefaultLowWaterMark)
	batches := [][]string{
		{"1", "2", "3"},
		{"3", "4", "1"},
		{"2", "5", "5"},
		{"6", "4"},
	}
	for i, batch := range batches {
		var items []models.CandidateItem
		for _, id := range batch {
			items = append(items, item(id))
		}
		s.Ingest(items)

		// move the head to the menu between batches
		if head, ok := s.Head(); ok && i%2 == 0 {
			require.NoError(t, s.ApplySwipe(models.SwipeDown, head))
		}

		seen := map[string]int{}
		for _, it := range append(s.Queue(), s.Menu()...) {
			seen[it.ID]++
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "id %s appears %d times", id, n)
		}
	}
}

func TestNeedsRefill(t *testing.T) {
	s := New(DefaultLowWaterMark)
	assert.True(t, s.NeedsRefill())

	s.Ingest([]models.CandidateItem{item("a")})
	assert.True(t, s.NeedsRefill())

	s.Ingest([]models.CandidateItem{item("b")})
	assert.False(t, s.NeedsRefill())

	require.NoError(t, s.ApplySwipe(models.SwipeLeft, item("a")))
	assert.True(t, s.NeedsRefill())

	_, ok := s.BeginFetch()
	require.True(t, ok)
	assert.False(t, s.NeedsRefill())
}

func TestMenuCalories(t *testing.T) {
	a := models.CandidateItem{ID: "a", Calories: 350}
	b := models.CandidateItem{ID: "b", Calories: 680}
	s := seeded(t, a, b)
	assert.Zero(t, s.MenuCalories())

	require.NoError(t, s.ApplySwipe(models.SwipeDown, a))
	require.NoError(t, s.ApplySwipe(models.SwipeDown, b))
	assert.Equal(t, 1030, s.MenuCalories())

	s.RemoveFromMenu("a")
	assert.Equal(t, 680, s.MenuCalories())
}

func TestPreferencesSnapshotIsDetached(t *testing.T) {
	s := seeded(t, item("a", "x", "y"))
	require.NoError(t, s.ApplySwipe(models.SwipeUp, item("a")))

	prefs := s.Preferences()
	prefs.DislikedTags[0] = "mutated"

	assert.Equal(t, []string{"x", "y"}, s.Preferences().DislikedTags)
}
