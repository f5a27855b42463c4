// Package lang validates and normalizes ISO 639-1 language codes for the
// translation backends.
package lang

import (
	"fmt"
	"strings"
)

// Default translation pair. The tool exists to move English text into
// Russian; the flags only override this for the odd one-off job.
const (
	DefaultSource = "en"
	DefaultTarget = "ru"
)

// validLanguages contains ISO 639-1 codes accepted by both backends.
// Not exhaustive, but covers the languages the Google endpoint and the
// OpenAI models handle reliably.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"fi": true, // Finnish
	"fr": true, // French
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sv": true, // Swedish
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(code string) string {
	return strings.ToLower(strings.ReplaceAll(code, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "ru") and locales (e.g., "pt-BR").
// Returns ErrInvalid if the base language is not recognized.
func Validate(code string) error {
	if code == "" {
		return fmt.Errorf("language code cannot be empty: %w", ErrInvalid)
	}

	if !validLanguages[BaseCode(code)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'ru'): %w",
			code, ErrInvalid)
	}

	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(code string) string {
	normalized := Normalize(code)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// displayNames maps base codes to human-readable names for prompt building.
var displayNames = map[string]string{
	"ar": "Arabic",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// DisplayName returns a human-readable name for a language code, used in
// LLM prompt instructions. Falls back to the code itself for unknown codes.
func DisplayName(code string) string {
	if name, ok := displayNames[BaseCode(code)]; ok {
		return name
	}
	return code
}
