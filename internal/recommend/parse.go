package recommend

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/chrisdamba/foodswipe/internal/models"
)

// DefaultCalories is used when the source omits calories or reports zero.
const DefaultCalories = 500

var (
	errEmptyResponse = errors.New("empty response")
	errNotArray      = errors.New("response is not a JSON array")
	errMalformed     = errors.New("malformed response")
)

// rawCandidate is one element of the source's JSON array. Calories is left
// loosely typed because models sometimes quote numbers.
type rawCandidate struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RestaurantName string   `json:"restaurantName"`
	Address        string   `json:"address"`
	Calories       any      `json:"calories"`
	Tags           []string `json:"tags"`
}

// stripFences removes markdown code fences a model may wrap its answer in.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// parseCandidates decodes the source text into candidates, stamping ids from
// fetchedAt and the element's position. The top level must be an array.
func parseCandidates(text string, fetchedAt time.Time) ([]models.CandidateItem, error) {
	cleaned := stripFences(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errEmptyResponse)
	}
	if !strings.HasPrefix(cleaned, "[") {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, errNotArray)
	}

	var raw []rawCandidate
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrUnavailable, errMalformed, err)
	}

	stamp := fetchedAt.UnixNano()
	items := make([]models.CandidateItem, 0, len(raw))
	for i, r := range raw {
		items = append(items, models.CandidateItem{
			ID:             fmt.Sprintf("%d-%d", stamp, i),
			Name:           r.Name,
			Description:    r.Description,
			RestaurantName: r.RestaurantName,
			Address:        r.Address,
			Calories:       calories(r.Calories),
			Tags:           normalizeTags(r.Tags),
			ImageURL:       ImageURL(r.Name),
		})
	}
	return items, nil
}

func calories(v any) int {
	var f float64
	switch c := v.(type) {
	case float64:
		f = c
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(c), 64)
	}
	if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultCalories
	}
	return int(math.Round(f))
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
