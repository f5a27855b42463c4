// Package llm adapts an OpenAI chat model to the translate.BatchTranslator
// capability. Each chunk is translated in its own chat completion with a
// fixed instruction prompt; the model is asked to return only the
// translation so chunk boundaries survive the round trip.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkraev/engru/internal/apierr"
	"github.com/mkraev/engru/internal/lang"
	"github.com/mkraev/engru/internal/translate"
)

// defaultModel balances cost and quality for bulk translation.
const defaultModel = openai.GPT4oMini

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly; tests inject fakes.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ translate.BatchTranslator = (*Client)(nil)

// Client translates batches through an OpenAI chat model, one chunk per
// completion, strictly in order.
type Client struct {
	client chatCompleter
	model  string
	source string
	target string
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the chat model. Default: gpt-4o-mini.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithSource sets the source language code. Default: "en".
func WithSource(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.source = code
		}
	}
}

// WithTarget sets the target language code. Default: "ru".
func WithTarget(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.target = code
		}
	}
}

// New creates a Client around an OpenAI chat client.
func New(client chatCompleter, opts ...Option) *Client {
	c := &Client{
		client: client,
		model:  defaultModel,
		source: lang.DefaultSource,
		target: lang.DefaultTarget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// systemPrompt builds the translation instruction for the configured pair.
func (c *Client) systemPrompt() string {
	return fmt.Sprintf(
		"Translate the user's text from %s to %s. "+
			"Preserve line breaks, structure and formatting exactly. "+
			"Output only the translated text, nothing else.",
		lang.DisplayName(c.source), lang.DisplayName(c.target))
}

// TranslateBatch translates texts in order, returning one translation per
// input. Any API failure aborts the batch; the caller owns retries.
func (c *Client) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	prompt := c.systemPrompt()

	out := make([]string, 0, len(texts))
	for i, text := range texts {
		translated, err := c.translateOne(ctx, prompt, text)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, classifyError(err))
		}
		out = append(out, translated)
	}
	return out, nil
}

// translateOne runs a single chat completion for one chunk.
func (c *Client) translateOne(ctx context.Context, prompt, text string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0, // Deterministic output for reproducibility.
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from API")
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError maps OpenAI API errors to apierr sentinel errors.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish a temporary rate limit from exhausted quota (billing).
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrRateLimit)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrQuotaExceeded)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout)
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrTimeout) // Retryable server error.
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
