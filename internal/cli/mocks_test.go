package cli_test

// Shared fakes for CLI command tests.

import (
	"context"
	"strings"

	"github.com/mkraev/engru/internal/cli"
	"github.com/mkraev/engru/internal/config"
	"github.com/mkraev/engru/internal/translate"
)

// fakeBackend uppercases every chunk and records calls.
type fakeBackend struct {
	calls [][]string
	err   error
}

func (f *fakeBackend) TranslateBatch(_ context.Context, texts []string) ([]string, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = strings.ToUpper(s)
	}
	return out, nil
}

// fakeBackendFactory returns canned backends and records what was requested.
type fakeBackendFactory struct {
	google *fakeBackend
	openai *fakeBackend

	googleCalls int
	openaiCalls int
	lastProxy   string
	lastAPIKey  string
	lastSource  string
	lastTarget  string
}

func (f *fakeBackendFactory) NewGoogle(proxy, source, target string) translate.BatchTranslator {
	f.googleCalls++
	f.lastProxy, f.lastSource, f.lastTarget = proxy, source, target
	return f.google
}

func (f *fakeBackendFactory) NewOpenAI(apiKey, source, target string) translate.BatchTranslator {
	f.openaiCalls++
	f.lastAPIKey, f.lastSource, f.lastTarget = apiKey, source, target
	return f.openai
}

// fakeConfigLoader serves a fixed Config.
type fakeConfigLoader struct {
	cfg config.Config
	err error
}

func (f *fakeConfigLoader) Load() (config.Config, error) {
	return f.cfg, f.err
}

// envMap builds a Getenv function from a map.
func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

// Compile-time interface verification for the fakes.
var (
	_ translate.BatchTranslator = (*fakeBackend)(nil)
	_ cli.BackendFactory        = (*fakeBackendFactory)(nil)
	_ cli.ConfigLoader          = (*fakeConfigLoader)(nil)
)
