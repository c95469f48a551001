package recommend

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint. Empty uses the public endpoint.
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiSource asks a Gemini model for dishes, grounded on Google Maps around
// the request's coordinate.
type GeminiSource struct {
	client *genai.Client
	model  string
}

func NewGeminiSource(ctx context.Context, cfg GeminiConfig) (*GeminiSource, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoCredential
	}
	if cfg.Model == "" {
		cfg.Model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiSource{client: client, model: cfg.Model}, nil
}

// Generate sends the prompt with the Google Maps tool enabled. The tool rules
// out a JSON response schema, so the answer comes back as free text.
func (s *GeminiSource) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}},
		ToolConfig: &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(req.Location.Lat),
					Longitude: genai.Ptr(req.Location.Lon),
				},
			},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "[]", nil
	}
	return text, nil
}

func (s *GeminiSource) Name() string {
	return fmt.Sprintf("genai:%s", s.model)
}
