package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"digest-pipeline/internal/resilience/circuitbreaker"
	"digest-pipeline/internal/resilience/retry"
)

// maxPromptChars bounds the user prompt sent to the API; processors already
// truncate their own content ahead of this, this is a final safety net.
const maxPromptChars = 10000

// Claude implements Provider over Anthropic's Messages API.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewClaude builds a Claude provider from an API key and the shared config.
func NewClaude(apiKey string, cfg Config) *Claude {
	slog.Info("initialized claude ai provider",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retryConfig:    retry.AICallConfig(),
		config:         cfg,
	}
}

func (c *Claude) Name() string { return "claude" }

// RunRaw sends systemPrompt/userPrompt to Claude and returns the raw text
// response, wrapped in the shared circuit breaker and retry stack.
func (c *Claude) RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	requestID := uuid.New().String()
	prompt := truncatePrompt(userPrompt)

	var result string
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doCall(ctx, requestID, systemPrompt, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude circuit breaker open, request rejected",
					slog.String("request_id", requestID))
				return &AIError{Provider: c.Name(), Retryable: true, Err: err}
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", &AIError{Provider: c.Name(), Retryable: true, Err: retryErr}
	}
	return result, nil
}

func (c *Claude) doCall(ctx context.Context, requestID, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	combined := userPrompt
	if systemPrompt != "" {
		combined = systemPrompt + "\n\n" + userPrompt
	}

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(combined)),
		},
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "claude call failed",
			slog.String("request_id", requestID),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.InfoContext(ctx, "claude call completed",
		slog.String("request_id", requestID),
		slog.Duration("duration", duration),
		slog.Int("response_length", len(textBlock.Text)))

	return textBlock.Text, nil
}

func truncatePrompt(s string) string {
	if len(s) <= maxPromptChars {
		return s
	}
	return s[:maxPromptChars] + "...\n(truncated)"
}
