package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chrisdamba/foodswipe/internal/models"
)

func TestPromptUsesNoneMarkers(t *testing.T) {
	p := buildPrompt(models.Preferences{Taboos: "   "}, 5)

	assert.Contains(t, p, "Find 5 distinct")
	assert.Contains(t, p, "STRICTLY AVOID these taboo ingredients/diets: None")
	assert.Contains(t, p, "Do NOT include foods with these tags/types: None")
	assert.Contains(t, p, "Return ONLY the raw JSON array.")
}

func TestPromptTrimsTaboos(t *testing.T) {
	p := buildPrompt(models.Preferences{Taboos: "  vegetarian, no nuts \n"}, 3)
	assert.Contains(t, p, "diets: vegetarian, no nuts\n")
}

func TestImageURL(t *testing.T) {
	cases := map[string]int{
		"Avocado Toast":          602,
		"Truffle Mushroom Pasta": 65,
		"":                       0,
		"a":                      97,
		"Crème Brûlée":           756,
		"Pad Thai 🍜":             687,
	}
	for name, want := range cases {
		assert.Equal(t, want, imageIndex(name), name)
	}
	assert.Equal(t, "https://picsum.photos/id/602/600/1000", ImageURL("Avocado Toast"))
	assert.Equal(t, ImageURL("Ramen"), ImageURL("Ramen"))
}

func TestParseStampsIDsFromClock(t *testing.T) {
	items, err := parseCandidates(`[{"name":"a"},{"name":"b"}]`, fixedNow)
	assert.NoError(t, err)
	assert.Equal(t, "1714564800000000000-0", items[0].ID)
	assert.Equal(t, "1714564800000000000-1", items[1].ID)
}

func TestParseRejectsNonArray(t *testing.T) {
	_, err := parseCandidates(`{"items":[]}`, fixedNow)
	assert.ErrorIs(t, err, ErrUnavailable)
}
