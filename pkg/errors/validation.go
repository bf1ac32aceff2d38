package errors

import (
	"strings"
	"unicode"
)

// Description length bounds enforced on generation requests.
const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
)

// ValidProviders is the set of supported cloud providers for generation.
var ValidProviders = map[string]bool{
	"aws":   true,
	"azure": true,
	"gcp":   true,
}

// ValidExportFormats is the set of supported diagram export formats.
var ValidExportFormats = map[string]bool{
	"svg":  true,
	"png":  true,
	"pdf":  true,
	"jpeg": true,
}

// ValidateDescription validates a natural-language infrastructure description.
//
// The validation rules are intentionally conservative:
//   - Not empty after trimming whitespace
//   - Between MinDescriptionLength and MaxDescriptionLength characters
//   - No control characters other than whitespace
func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return New(ErrCodeInvalidDescription, "description cannot be empty")
	}

	if len(trimmed) < MinDescriptionLength {
		return New(ErrCodeInvalidDescription, "description too short (min %d characters)", MinDescriptionLength)
	}

	if len(trimmed) > MaxDescriptionLength {
		return New(ErrCodeInvalidDescription, "description too long (max %d characters)", MaxDescriptionLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidDescription, "description contains invalid control characters")
		}
	}

	return nil
}

// ValidateProvider validates a cloud provider name.
func ValidateProvider(provider string) error {
	if provider == "" {
		return New(ErrCodeInvalidProvider, "provider cannot be empty")
	}
	if !ValidProviders[provider] {
		return New(ErrCodeInvalidProvider, "unsupported provider: %q", provider)
	}
	return nil
}

// ValidateFormat validates a diagram export format.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !ValidExportFormats[format] {
		return New(ErrCodeInvalidFormat, "unsupported export format: %q", format)
	}
	return nil
}
