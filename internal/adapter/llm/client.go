package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quizforge/internal/config"
	"quizforge/internal/domain"
	"quizforge/internal/logger"
	"quizforge/internal/mcq"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Client calls the hosted generative text service through langchaingo. Every
// call runs under a hard wall-clock budget: the request is cancelled at the
// deadline, so an over-budget call never returns success. A single attempt,
// no retries.
type Client struct {
	model       llms.Model
	temperature float64
	timeout     time.Duration
}

// NewClient wraps an already-constructed langchaingo model. Tests inject a
// fake llms.Model here.
func NewClient(model llms.Model, temperature float64, timeout time.Duration) *Client {
	return &Client{
		model:       model,
		temperature: temperature,
		timeout:     timeout,
	}
}

// NewGroqClient builds a Client against Groq's OpenAI-compatible chat API.
func NewGroqClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("LLM API key cannot be empty")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("LLM model name cannot be empty")
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout + 5*time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     10 * time.Second,
		},
	}

	model, err := openai.New(
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return NewClient(model, cfg.Temperature, cfg.Timeout), nil
}

// Generate implements domain.TextGenerator. Deadline expiry fails with the
// timeout error code; any other provider or transport fault is collapsed into
// a single LLM service error (the original detail is logged, not surfaced, so
// callers never depend on provider-specific error shapes).
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.model.GenerateContent(callCtx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, mcq.SystemPrompt),
			llms.TextParts(llms.ChatMessageTypeHuman, prompt),
		},
		llms.WithTemperature(c.temperature),
	)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			l.Warn("LLM call exceeded time budget",
				zap.Duration("budget", c.timeout),
				zap.Duration("elapsed", elapsed))
			return "", domain.NewLLMTimeoutError(err)
		}
		l.Error("LLM call failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return "", domain.NewLLMServiceError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		l.Error("LLM returned an empty response", zap.Duration("elapsed", elapsed))
		return "", domain.NewLLMServiceError(fmt.Errorf("empty response from model"))
	}

	l.Debug("LLM call completed",
		zap.Duration("elapsed", elapsed),
		zap.Int("response_chars", len(resp.Choices[0].Content)))
	return resp.Choices[0].Content, nil
}

// Static assertion that Client satisfies the domain port.
var _ domain.TextGenerator = (*Client)(nil)
