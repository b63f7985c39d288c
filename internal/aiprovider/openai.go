package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"digest-pipeline/internal/resilience/circuitbreaker"
	"digest-pipeline/internal/resilience/retry"
)

// OpenAI implements Provider over OpenAI's chat completion API.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

// NewOpenAI builds an OpenAI provider from an API key and the shared config.
func NewOpenAI(apiKey string, cfg Config) *OpenAI {
	slog.Info("initialized openai ai provider",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens))

	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AICallConfig(),
		config:         cfg,
	}
}

func (o *OpenAI) Name() string { return "openai" }

// RunRaw sends systemPrompt/userPrompt to OpenAI and returns the raw text
// response, wrapped in the shared circuit breaker and retry stack.
func (o *OpenAI) RunRaw(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	prompt := truncatePrompt(userPrompt)

	var result string
	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doCall(ctx, systemPrompt, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai circuit breaker open, request rejected")
				return &AIError{Provider: o.Name(), Retryable: true, Err: err}
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})

	if retryErr != nil {
		return "", &AIError{Provider: o.Name(), Retryable: true, Err: retryErr}
	}
	return result, nil
}

func (o *OpenAI) doCall(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	start := time.Now()

	messages := []openai.ChatCompletionMessage{}
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userPrompt,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		Messages:  messages,
		MaxTokens: o.config.MaxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "openai call failed",
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api returned empty response")
	}

	slog.InfoContext(ctx, "openai call completed",
		slog.Duration("duration", duration),
		slog.Int("response_length", len(resp.Choices[0].Message.Content)))

	return resp.Choices[0].Message.Content, nil
}
