// Package factory builds the configured llm.Provider.
package factory

import (
	"fmt"

	"github.com/newthinker/fxagents/internal/config"
	"github.com/newthinker/fxagents/internal/core"
	"github.com/newthinker/fxagents/internal/llm"
	"github.com/newthinker/fxagents/internal/llm/claude"
	"github.com/newthinker/fxagents/internal/llm/ollama"
	"github.com/newthinker/fxagents/internal/llm/openai"
)

// New creates an LLM provider based on configuration.
// An empty provider name yields (nil, nil): analysis is optional.
func New(cfg config.LLMConfig) (llm.Provider, error) {
	var (
		p   llm.Provider
		err error
	)
	switch cfg.Provider {
	case "":
		return nil, nil
	case "claude":
		p, err = wrap(claude.New(cfg.Claude.APIKey, cfg.Claude.Model))
	case "openai":
		p, err = wrap(openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	case "ollama":
		p, err = wrap(ollama.New(cfg.Ollama.Endpoint, cfg.Ollama.Model))
	case "perplexity":
		p, err = wrap(openai.NewPerplexity(cfg.Perplexity.APIKey, cfg.Perplexity.Model, cfg.Perplexity.BaseURL))
	default:
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown LLM provider: %s", cfg.Provider))
	}
	if err != nil {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("%s: %w", cfg.Provider, err))
	}
	return p, nil
}

// wrap keeps a failed constructor from leaking a typed nil into the interface.
func wrap[P llm.Provider](p P, err error) (llm.Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
