package ai

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash"

// ErrModelUnavailable is returned by UnavailableModel.
var ErrModelUnavailable = errors.New("AI model is not configured")

// Model performs one structured round trip to a hosted language model.
// The returned string is the raw JSON document produced by the model.
type Model interface {
	GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
}

// GeminiModel implements Model on top of the Gemini API.
type GeminiModel struct {
	client      *genai.Client
	name        string
	temperature *float32
}

// NewGeminiModel creates a Gemini-backed model.
func NewGeminiModel(ctx context.Context, apiKey, name string, temperature *float32) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if name == "" {
		name = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiModel{client: client, name: name, temperature: temperature}, nil
}

// Name returns the model identifier.
func (m *GeminiModel) Name() string {
	return m.name
}

// GenerateJSON asks the model for a JSON response that matches schema.
func (m *GeminiModel) GenerateJSON(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      m.temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// UnavailableModel fails every call. It stands in when no API key is configured.
type UnavailableModel struct{}

// GenerateJSON always returns ErrModelUnavailable.
func (UnavailableModel) GenerateJSON(context.Context, string, *genai.Schema) (string, error) {
	return "", ErrModelUnavailable
}
