package cli

import (
	"errors"
	"fmt"
)

// Provider name constants.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// Provider represents a validated translation backend choice.
// Zero value is invalid and must not be used.
// Use ParseProvider to create from user input, or the pre-parsed constants.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed provider constants for use in code.
var (
	GoogleProvider = Provider{name: ProviderGoogle}
	OpenAIProvider = Provider{name: ProviderOpenAI}
)

// validProviders contains the set of valid provider names.
var validProviders = map[string]bool{
	ProviderGoogle: true,
	ProviderOpenAI: true,
}

// ParseProvider validates and parses a provider name string.
// Returns ErrInvalidProvider if the name is not recognized.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'google' or 'openai'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// String returns the provider name string.
// Returns empty string for zero value.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if this is the zero value (no provider set).
func (p Provider) IsZero() bool {
	return p.name == ""
}

// IsGoogle returns true if this provider is the Google web endpoint.
func (p Provider) IsGoogle() bool {
	return p.name == ProviderGoogle
}

// IsOpenAI returns true if this provider is OpenAI.
func (p Provider) IsOpenAI() bool {
	return p.name == ProviderOpenAI
}

// OrDefault returns the provider, or GoogleProvider if zero.
// Google is the default because it needs no API key.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return GoogleProvider
	}
	return p
}
