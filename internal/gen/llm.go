package gen

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// LLM generates raw script text with a language model. JSON mode is
// requested but never trusted; the repairer handles whatever comes back.
type LLM struct {
	model       llms.Model
	maxTokens   int
	temperature float64
}

// NewOllama connects to a local Ollama server.
func NewOllama(model, serverURL string) (*LLM, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}
	return &LLM{model: llm, maxTokens: 2000, temperature: 0.2}, nil
}

// NewOpenAI uses the OpenAI API; the key comes from OPENAI_API_KEY.
func NewOpenAI(model string) (*LLM, error) {
	llm, err := openai.New(openai.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	return &LLM{model: llm, maxTokens: 2000, temperature: 0.2}, nil
}

// Generate sends the prompt and returns the raw completion text.
func (l *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, l.model, prompt,
		llms.WithJSONMode(),
		llms.WithMaxTokens(l.maxTokens),
		llms.WithTemperature(l.temperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}
