package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/kaushalkumar0001/StressLess/config"
	"github.com/kaushalkumar0001/StressLess/metrics"

	openai "github.com/sashabaranov/go-openai"
)

// Generator is the text-completion collaborator behind the analysis gate.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ChatCompleter completes a whole conversation; the chat assistant uses it.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// OpenAIGenerator talks to any OpenAI-compatible endpoint (OpenRouter by default).
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	purpose     string // metrics label, e.g. "analysis" or "chat"
}

// NewOpenAIGenerator builds a completion client for model. With no API key
// configured every call fails with ErrGenerationUnavailable.
func NewOpenAIGenerator(cfg config.LLMConfig, model string, purpose string) *OpenAIGenerator {
	g := &OpenAIGenerator{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		purpose:     purpose,
	}
	if cfg.APIKey == "" {
		log.Printf("WARN: [Generator] No API key configured for %s generation; requests will fail with a configuration error.", purpose)
		return g
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	g.client = openai.NewClientWithConfig(clientConfig)
	log.Printf("INFO: [Generator] %s generation uses model '%s' at %s.", purpose, model, clientConfig.BaseURL)
	return g
}

// Generate sends a system and a user prompt and returns the completion text.
func (g *OpenAIGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return g.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: userPrompt},
	})
}

// Complete performs exactly one completion call; retries are left to the caller.
func (g *OpenAIGenerator) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("%w: API key not configured", ErrGenerationUnavailable)
	}
	if g.model == "" {
		return "", fmt.Errorf("%w: no model configured for %s", ErrGenerationUnavailable, g.purpose)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: g.temperature,
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	metrics.GenerationDuration.WithLabelValues(g.purpose).Observe(time.Since(start).Seconds())
	if err != nil {
		log.Printf("ERROR: [Generator] %s completion with model %s failed after %v: %v", g.purpose, g.model, time.Since(start), err)
		return "", classifyCompletionError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: model returned no choices", ErrGenerationTransient)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: model returned an empty response", ErrGenerationTransient)
	}
	return text, nil
}

// classifyCompletionError separates credential problems, which retrying will
// not fix, from everything else.
func classifyCompletionError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: provider rejected credentials: %v", ErrGenerationUnavailable, err)
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode == http.StatusUnauthorized || reqErr.HTTPStatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: provider rejected credentials: %v", ErrGenerationUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrGenerationTransient, err)
}
