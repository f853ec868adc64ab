package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	googleoption "google.golang.org/api/option"
)

// GeminiProvider implements the Provider interface for Google Gemini models.
// A genai.Client is created per call so the caller's context governs the
// connection and the client is always closed after use.
type GeminiProvider struct {
	apiKey string
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required: %w", ErrNotConfigured)
	}
	return &GeminiProvider{apiKey: config.APIKey, config: config}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

func (p *GeminiProvider) model() string {
	if p.config.Model != "" {
		return p.config.Model
	}
	return "gemini-1.5-flash"
}

// IsAvailable checks if the provider is properly configured
func (p *GeminiProvider) IsAvailable(ctx context.Context) bool {
	client, err := genai.NewClient(ctx, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		p.config.logger().Warn("model API check failed", zap.String("provider", p.Name()), zap.Error(err))
		return false
	}
	defer func() { _ = client.Close() }()

	if _, err := client.GenerativeModel(p.model()).Info(ctx); err != nil {
		p.config.logger().Warn("model API check failed", zap.String("provider", p.Name()), zap.Error(err))
		return false
	}
	return true
}

// Complete sends the prompt pair through the Gemini GenerateContent API
func (p *GeminiProvider) Complete(ctx context.Context, systemPrompt, userText string, temperature float64) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(60*time.Second))
	defer cancel()

	client, err := genai.NewClient(ctxWithTimeout, googleoption.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer func() { _ = client.Close() }()

	m := client.GenerativeModel(p.model())
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	maxOut := int32(p.config.maxTokens())
	m.MaxOutputTokens = &maxOut
	temp32 := float32(temperature)
	m.Temperature = &temp32
	m.ResponseMIMEType = "application/json"

	resp, err := m.GenerateContent(ctxWithTimeout, genai.Text(userText))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	var parts []string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				parts = append(parts, string(t))
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini response contained no text content")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}
