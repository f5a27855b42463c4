// Package translate drives chunked translation of long text through an
// external backend. Input is split into paragraph-aligned chunks, grouped
// into batches, and submitted one batch at a time; transient failures are
// retried with a fixed delay, and successful results are reassembled in
// order. The pipeline is strictly sequential: batching amortizes the cost
// of the external call, it does not enable concurrency.
package translate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mkraev/engru/internal/apierr"
	"github.com/mkraev/engru/internal/chunk"
)

// Default translator configuration.
const (
	// DefaultBatchSize is the number of chunks submitted per backend call.
	DefaultBatchSize = chunk.DefaultBatchSize

	// DefaultLogPrefix marks every progress and error line.
	DefaultLogPrefix = ">"

	// DefaultMaxRetries is the total number of attempts per batch.
	DefaultMaxRetries = 2

	// DefaultRetryDelay is the fixed wait between attempts.
	DefaultRetryDelay = 10 * time.Second
)

// BatchTranslator is the external translate capability: given an ordered
// list of strings it returns an ordered list of translated strings of the
// same length, or fails with an opaque error.
type BatchTranslator interface {
	TranslateBatch(ctx context.Context, texts []string) ([]string, error)
}

// LogFunc receives one free-text progress or error line.
// Set via WithInfoLog/WithErrorLog; defaults write to stderr.
type LogFunc func(msg string)

// defaultLogFunc writes log lines to stderr.
func defaultLogFunc(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// digitsAndPunctuation matches text consisting solely of digits,
// whitespace, and common punctuation. Such text is untranslatable
// (numeric tables, pure punctuation) and is returned unchanged.
var digitsAndPunctuation = regexp.MustCompile(`^[0-9.,;:!?\-()\[\]{}'"\s]+$`)

// IsDigitsAndPunctuation reports whether text consists solely of digits,
// whitespace, and punctuation characters.
func IsDigitsAndPunctuation(text string) bool {
	return digitsAndPunctuation.MatchString(text)
}

// Translator performs chunked translation runs against a backend.
// It holds only configuration; a Translator is safe to reuse across runs.
type Translator struct {
	backend    BatchTranslator
	batchSize  int
	logPrefix  string
	maxRetries int
	retryDelay time.Duration
	info       LogFunc
	errlog     LogFunc
}

// Option configures a Translator.
type Option func(*Translator)

// WithBatchSize sets the number of chunks per backend call.
// Values below 1 are ignored.
func WithBatchSize(n int) Option {
	return func(t *Translator) {
		if n >= 1 {
			t.batchSize = n
		}
	}
}

// WithLogPrefix sets the marker prefixed to every log line.
func WithLogPrefix(prefix string) Option {
	return func(t *Translator) {
		t.logPrefix = prefix
	}
}

// WithMaxRetries sets the total number of attempts per batch.
// Values below 1 are ignored.
func WithMaxRetries(n int) Option {
	return func(t *Translator) {
		if n >= 1 {
			t.maxRetries = n
		}
	}
}

// WithRetryDelay sets the fixed wait between attempts.
// Negative values are ignored.
func WithRetryDelay(d time.Duration) Option {
	return func(t *Translator) {
		if d >= 0 {
			t.retryDelay = d
		}
	}
}

// WithInfoLog sets the sink for informational lines (progress, run header).
func WithInfoLog(fn LogFunc) Option {
	return func(t *Translator) {
		if fn != nil {
			t.info = fn
		}
	}
}

// WithErrorLog sets the sink for error lines (failed attempts, fatal notice).
func WithErrorLog(fn LogFunc) Option {
	return func(t *Translator) {
		if fn != nil {
			t.errlog = fn
		}
	}
}

// New creates a Translator for the given backend.
func New(backend BatchTranslator, opts ...Option) (*Translator, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}

	t := &Translator{
		backend:    backend,
		batchSize:  DefaultBatchSize,
		logPrefix:  DefaultLogPrefix,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		info:       defaultLogFunc,
		errlog:     defaultLogFunc,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Run translates text, logging description for operator visibility.
// Digits/punctuation-only text is returned unchanged without any backend
// call. On backend failure each batch is retried up to the configured
// attempt limit; once attempts are exhausted the whole run fails with an
// error wrapping ErrRetriesExhausted and no partial output.
func (t *Translator) Run(ctx context.Context, text, description string) (string, error) {
	t.info("---")
	t.info(fmt.Sprintf("%s %s", t.logPrefix, description))

	if text == "" || IsDigitsAndPunctuation(text) {
		t.info(fmt.Sprintf("%s> Translated: 100%%.", t.logPrefix))
		return text, nil
	}

	return t.translate(ctx, text)
}

// translate runs the chunk -> batch -> retry pipeline over text.
func (t *Translator) translate(ctx context.Context, text string) (string, error) {
	totalChars := utf8.RuneCountInString(text)
	t.info(fmt.Sprintf("%s> Text length: %d characters.", t.logPrefix, totalChars))

	var out strings.Builder
	translatedChars := 0

	for batch := range chunk.Batches(chunk.Split(text), t.batchSize) {
		translated, err := t.translateBatch(ctx, batch)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return "", err
			}
			t.errlog(fmt.Sprintf("%s> Retries exhausted, aborting.", t.logPrefix))
			return "", fmt.Errorf("%v: %w", err, ErrRetriesExhausted)
		}

		out.WriteString(strings.Join(translated, "\n"))

		// Progress counts source characters, not chunks: chunk lengths vary
		// widely, so character counts track real progress far better.
		translatedChars += batchChars(batch)
		t.info(fmt.Sprintf("%s> Translated: %d%%.", t.logPrefix, translatedChars*100/totalChars))
	}

	return out.String(), nil
}

// translateBatch submits one batch with fixed-delay retry, logging every
// failed attempt.
func (t *Translator) translateBatch(ctx context.Context, batch []string) ([]string, error) {
	cfg := apierr.RetryConfig{
		MaxAttempts: t.maxRetries,
		Delay:       t.retryDelay,
		Notify: func(attempt int, err error) {
			t.errlog(fmt.Sprintf("%s> Translation failed: %v.", t.logPrefix, err))
			t.errlog(fmt.Sprintf("%s> Attempt %d of %d.", t.logPrefix, attempt, t.maxRetries))
		},
	}

	return apierr.Retry(ctx, cfg, func() ([]string, error) {
		translated, err := t.backend.TranslateBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(translated) != len(batch) {
			return nil, fmt.Errorf("%d translations for %d chunks: %w",
				len(translated), len(batch), ErrBatchMismatch)
		}
		return translated, nil
	}, isRetryable)
}

// isRetryable reports whether a batch failure should be retried.
// The backend error is opaque, so everything short of context
// cancellation is treated as transient.
func isRetryable(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// batchChars counts the source characters a batch covers, including the
// separators rejoined between its chunks.
func batchChars(batch []string) int {
	n := len(batch) - 1
	for _, c := range batch {
		n += utf8.RuneCountInString(c)
	}
	return n
}
