package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ppiankov/proofline/internal/util"
)

const (
	deepSeekBaseURL = "https://api.deepseek.com"
	deepSeekModel   = "deepseek-chat"
)

// OpenAIProvider implements the Provider interface for OpenAI-compatible
// chat completion APIs (OpenAI itself and DeepSeek)
type OpenAIProvider struct {
	name         string
	client       *openai.Client
	config       Config
	defaultModel string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required: %w", ErrNotConfigured)
	}
	return newChatProvider("openai", config, config.BaseURL, openai.GPT4oMini), nil
}

// NewDeepSeekProvider creates a provider for the DeepSeek chat API, which
// speaks the OpenAI wire format under a /v1 prefix
func NewDeepSeekProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required: %w", ErrNotConfigured)
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = deepSeekBaseURL
	}
	if !strings.HasSuffix(baseURL, "/v1") {
		baseURL += "/v1"
	}

	return newChatProvider("deepseek", config, baseURL, deepSeekModel), nil
}

func newChatProvider(name string, config Config, baseURL, defaultModel string) *OpenAIProvider {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: config.timeout(60 * time.Second),
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	return &OpenAIProvider{
		name:         name,
		client:       openai.NewClientWithConfig(clientConfig),
		config:       config,
		defaultModel: defaultModel,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return p.name
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	// Simple check: try to list models (lightweight API call)
	_, err := p.client.ListModels(ctx)
	if err != nil {
		p.config.logger().Warn("model API check failed", zap.String("provider", p.name), zap.Error(err))
		return false
	}
	return true
}

// Complete sends the prompt pair through the Chat Completions API
func (p *OpenAIProvider) Complete(ctx context.Context, systemPrompt, userText string, temperature float64) (string, error) {
	model := p.config.Model
	if model == "" {
		model = p.defaultModel
	}

	// Create timeout context
	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.config.timeout(60*time.Second))
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userText,
			},
		},
		MaxTokens:   p.config.maxTokens(),
		Temperature: float32(temperature),
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return "", fmt.Errorf("%s API error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
