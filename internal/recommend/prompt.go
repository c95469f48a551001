package recommend

import (
	"fmt"
	"strings"

	"github.com/chrisdamba/foodswipe/internal/models"
)

// noneMarker stands in for an empty constraint so the model never sees a blank.
const noneMarker = "None"

const promptTemplate = `
Find %d distinct, popular, and high-quality dishes from highly-rated restaurants near the current location.

CRITICAL FILTERS:
- STRICTLY AVOID these taboo ingredients/diets: %s
- Do NOT include foods with these tags/types: %s

For each item, provide the output in this EXACT JSON structure inside a list:
[
  {
    "name": "Dish Name",
    "description": "Short appetizing description",
    "restaurantName": "Name of Restaurant",
    "address": "Address or approximate location",
    "calories": 0,
    "tags": ["tag1", "tag2"]
  }
]

Return ONLY the raw JSON array. Do not use Markdown code blocks.
`

func buildPrompt(prefs models.Preferences, count int) string {
	return fmt.Sprintf(promptTemplate, count, taboosConstraint(prefs), dislikesConstraint(prefs))
}

func taboosConstraint(prefs models.Preferences) string {
	if t := strings.TrimSpace(prefs.Taboos); t != "" {
		return t
	}
	return noneMarker
}

func dislikesConstraint(prefs models.Preferences) string {
	if len(prefs.DislikedTags) == 0 {
		return noneMarker
	}
	return strings.Join(prefs.DislikedTags, ", ")
}
