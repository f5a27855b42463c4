package cli

import (
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mkraev/engru/internal/config"
	"github.com/mkraev/engru/internal/gtrans"
	"github.com/mkraev/engru/internal/llm"
	"github.com/mkraev/engru/internal/translate"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stderr io.Writer
	Getenv func(string) string

	// Factories for domain objects
	ConfigLoader   ConfigLoader
	BackendFactory BackendFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// BackendFactory creates translation backends for the chosen provider.
type BackendFactory interface {
	// NewGoogle creates the Google web-endpoint backend.
	NewGoogle(proxy, source, target string) translate.BatchTranslator

	// NewOpenAI creates the OpenAI chat backend using the given API key.
	NewOpenAI(apiKey, source, target string) translate.BatchTranslator
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithBackendFactory sets the backend factory.
func WithBackendFactory(f BackendFactory) EnvOption {
	return func(e *Env) {
		e.BackendFactory = f
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stderr:         os.Stderr,
		Getenv:         os.Getenv,
		ConfigLoader:   &defaultConfigLoader{},
		BackendFactory: &defaultBackendFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultBackendFactory implements BackendFactory using the real backends.
type defaultBackendFactory struct{}

func (defaultBackendFactory) NewGoogle(proxy, source, target string) translate.BatchTranslator {
	return gtrans.New(
		gtrans.WithProxy(proxy),
		gtrans.WithSource(source),
		gtrans.WithTarget(target),
	)
}

func (defaultBackendFactory) NewOpenAI(apiKey, source, target string) translate.BatchTranslator {
	client := openai.NewClient(apiKey)
	return llm.New(client,
		llm.WithSource(source),
		llm.WithTarget(target),
	)
}

// Compile-time interface verification.
var (
	_ ConfigLoader   = (*defaultConfigLoader)(nil)
	_ BackendFactory = (*defaultBackendFactory)(nil)
)
