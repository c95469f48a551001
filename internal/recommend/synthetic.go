package recommend

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"

	"github.com/chrisdamba/foodswipe/internal/factories"
)

// syntheticSource answers requests from the local dish catalog. It lets the
// app run end to end without network access or a credential.
type syntheticSource struct {
	mu      sync.Mutex
	factory *factories.CandidateFactory
}

// NewSyntheticSource returns a Source backed by faker-generated dishes. A
// non-zero seed makes the output reproducible.
func NewSyntheticSource(seed int64) Source {
	return &syntheticSource{factory: factories.NewCandidateFactory(seed)}
}

func (s *syntheticSource) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	count := req.Count
	if count <= 0 {
		count = DefaultBatchSize
	}

	s.mu.Lock()
	items := s.factory.CreateAvoiding(count, req.Preferences)
	s.mu.Unlock()

	raw := make([]rawCandidate, 0, len(items))
	for _, it := range items {
		raw = append(raw, rawCandidate{
			Name:           it.Name,
			Description:    it.Description,
			RestaurantName: it.RestaurantName,
			Address:        it.Address,
			Calories:       it.Calories,
			Tags:           it.Tags,
		})
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode synthetic batch: %w", err)
	}
	return string(data), nil
}
