package model

import (
	"errors"
	"strings"
)

var (
	ErrMissingLanguage = errors.New("language is required")
	ErrInvalidLanguage = errors.New("language code is invalid")
)

const maxLanguageLength = 35

// NormalizeLanguage canonicalizes a BCP-47-ish language tag so that "EN-US",
// "en_US" and "en-us" all address the same row. The region is preserved;
// only case and separator are normalized.
//
// An empty language is a validation error, never defaulted: every artifact
// row is keyed by language and a silent default would split the keyspace.
func NormalizeLanguage(lang string) (string, error) {
	code := strings.TrimSpace(lang)
	if code == "" {
		return "", ErrMissingLanguage
	}
	code = strings.ToLower(strings.ReplaceAll(code, "_", "-"))
	if len(code) > maxLanguageLength {
		return "", ErrInvalidLanguage
	}
	for _, part := range strings.Split(code, "-") {
		if part == "" {
			return "", ErrInvalidLanguage
		}
		for _, r := range part {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				return "", ErrInvalidLanguage
			}
		}
	}
	return code, nil
}

// LanguageBase returns the primary subtag of a normalized language
// ("en-us" -> "en"). Used to resolve the target-language name for prompts.
func LanguageBase(normalized string) string {
	if idx := strings.Index(normalized, "-"); idx >= 0 {
		return normalized[:idx]
	}
	return normalized
}
