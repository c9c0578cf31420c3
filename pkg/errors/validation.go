package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// regionNameRegex matches cloud region identifiers like "eu-west-1" or "us-east-2".
var regionNameRegex = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// ValidateRegionName validates a region identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Lowercase letters, digits and single hyphens only
//   - Must start with a letter
//   - Maximum length of 64 characters
func ValidateRegionName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRegion, "region name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidRegion, "region name too long (max 64 characters)")
	}

	if !regionNameRegex.MatchString(name) {
		return New(ErrCodeInvalidRegion, "invalid region name: %q", name)
	}

	return nil
}

// kindNameRegex matches service kind identifiers like "web_app" or "sql_database".
var kindNameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidateKindName validates a service kind identifier.
// Unknown kinds are allowed through the pipeline, but they still have to be
// well-formed snake_case identifiers so they cannot smuggle markup or paths
// into rendered output.
func ValidateKindName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "service kind cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "service kind too long (max 64 characters)")
	}

	if !kindNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid service kind: %q", name)
	}

	return nil
}

// patternNameRegex matches composition pattern names like "ha-multiregion".
var patternNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidatePatternName validates a composition pattern name.
func ValidatePatternName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPattern, "pattern name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidPattern, "pattern name too long (max 64 characters)")
	}

	if !patternNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPattern, "invalid pattern name: %q", name)
	}

	return nil
}

// ValidateDesignName validates a stored design's display name.
// Names are free-form but must stay printable and bounded.
func ValidateDesignName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "design name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "design name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "design name contains invalid control characters")
		}
	}

	return nil
}

// ValidateStoreURI validates a persistence connection string.
// Only MongoDB connection schemes are accepted.
func ValidateStoreURI(uri string) error {
	if uri == "" {
		return New(ErrCodeInvalidInput, "store URI cannot be empty")
	}

	if !strings.HasPrefix(uri, "mongodb://") && !strings.HasPrefix(uri, "mongodb+srv://") {
		return New(ErrCodeInvalidInput, "store URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}
