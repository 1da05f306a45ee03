// Package openai implements llm.Provider for OpenAI and OpenAI-compatible chat APIs,
// Perplexity included.
package openai

import (
	"context"
	"fmt"

	"github.com/newthinker/fxagents/internal/llm"
	"github.com/sashabaranov/go-openai"
)

const (
	PerplexityBaseURL = "https://api.perplexity.ai"
	PerplexityModel   = "llama-3.1-sonar-small-128k-online"
)

// Provider implements the LLM interface for OpenAI-compatible APIs.
type Provider struct {
	client *openai.Client
	model  string
	name   string
}

// New creates a new OpenAI provider.
func New(apiKey, model string) (*Provider, error) {
	if model == "" {
		model = "gpt-4o"
	}
	return NewCompatible("openai", apiKey, model, "")
}

// NewPerplexity creates a provider for the Perplexity chat API.
func NewPerplexity(apiKey, model, baseURL string) (*Provider, error) {
	if model == "" {
		model = PerplexityModel
	}
	if baseURL == "" {
		baseURL = PerplexityBaseURL
	}
	return NewCompatible("perplexity", apiKey, model, baseURL)
}

// NewCompatible creates a provider for any endpoint speaking the OpenAI chat protocol.
// An empty baseURL targets OpenAI itself.
func NewCompatible(name, apiKey, model, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		return nil, fmt.Errorf("model required")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Provider{client: openai.NewClientWithConfig(cfg), model: model, name: name}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return p.name
}

// Chat sends a chat completion request.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)

	// Add system prompt as first message if provided
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}

	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == llm.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: float32(req.Temperature),
	}

	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s API error: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s API returned no choices", p.name)
	}

	return &llm.ChatResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: llm.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		FinishReason: string(resp.Choices[0].FinishReason),
	}, nil
}
