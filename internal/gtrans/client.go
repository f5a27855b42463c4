// Package gtrans adapts the free Google translate web endpoint
// (github.com/Conight/go-googletrans) to the translate.BatchTranslator
// capability. It is the default backend: no API key, good enough quality
// for bulk English→Russian text.
package gtrans

import (
	"context"
	"fmt"

	translator "github.com/Conight/go-googletrans"

	"github.com/mkraev/engru/internal/lang"
	"github.com/mkraev/engru/internal/translate"
)

// textTranslator is the slice of the go-googletrans client we use.
// It allows injecting fakes in tests.
type textTranslator interface {
	Translate(origin, src, dest string) (*translator.Translated, error)
}

// Compile-time interface compliance checks.
var (
	_ textTranslator            = (*translator.Translator)(nil)
	_ translate.BatchTranslator = (*Client)(nil)
)

// Client translates batches through the Google web endpoint, one chunk at
// a time. The endpoint accepts a single text per request, so a batch is a
// sequential series of calls; context is honored between calls.
type Client struct {
	t      textTranslator
	source string
	target string
	proxy  string
}

// Option configures a Client.
type Option func(*Client)

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

// WithProxy routes requests through an HTTP proxy, for networks where the
// Google endpoint is unreachable directly.
func WithProxy(proxy string) Option {
	return func(c *Client) {
		c.proxy = proxy
	}
}

// WithTranslator sets a custom underlying translator (for testing).
func WithTranslator(t textTranslator) Option {
	return func(c *Client) {
		c.t = t
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		source: lang.DefaultSource,
		target: lang.DefaultTarget,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.t == nil {
		c.t = translator.New(translator.Config{Proxy: c.proxy})
	}
	return c
}

// TranslateBatch translates texts in order, returning one translation per
// input. Any endpoint failure aborts the batch; the caller owns retries.
func (c *Client) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	out := make([]string, 0, len(texts))
	for i, text := range texts {
		// The underlying client has no context support; check between calls
		// so a cancelled run stops at the next chunk boundary.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := c.t.Translate(text, c.source, c.target)
		if err != nil {
			return nil, fmt.Errorf("google translate chunk %d: %w", i, err)
		}
		out = append(out, result.Text)
	}
	return out, nil
}
