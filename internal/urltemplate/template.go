package urltemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrEmpty reports a blank template.
	ErrEmpty = errors.New("url template is empty")
	// ErrForbiddenCharacter reports a template containing a disallowed character.
	ErrForbiddenCharacter = errors.New("url template contains a forbidden character")
	// ErrMissingScheme reports a template without an http:// or https:// prefix.
	ErrMissingScheme = errors.New("url template does not start with http:// or https://")
)

// DefaultForbidden lists the characters rejected when a Policy leaves Forbidden empty.
const DefaultForbidden = "_"

// Policy controls which template problems are fatal.
type Policy struct {
	// Forbidden lists characters that abort the run when present.
	Forbidden string
	// RequireScheme turns the missing-scheme warning into an error.
	RequireScheme bool
}

// Result captures non-fatal findings.
type Result struct {
	Warnings []string
}

// Validate checks template against policy. Fatal problems are returned as
// errors wrapping one of the package sentinels; the missing-scheme check is
// reported as a warning unless policy.RequireScheme is set.
func Validate(template string, policy Policy) (Result, error) {
	var result Result
	if strings.TrimSpace(template) == "" {
		return result, ErrEmpty
	}
	forbidden := policy.Forbidden
	if forbidden == "" {
		forbidden = DefaultForbidden
	}
	if idx := strings.IndexAny(template, forbidden); idx >= 0 {
		return result, fmt.Errorf("%w: %q at position %d", ErrForbiddenCharacter, template[idx], idx)
	}
	if !HasHTTPScheme(template) {
		if policy.RequireScheme {
			return result, fmt.Errorf("%w: %q", ErrMissingScheme, template)
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("url template %q does not start with http:// or https://", template))
	}
	return result, nil
}

// HasHTTPScheme reports whether template starts with http:// or https://,
// ignoring case.
func HasHTTPScheme(template string) bool {
	lower := strings.ToLower(strings.TrimSpace(template))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// BucketURL returns the URL for a playback offset in whole seconds.
func BucketURL(template string, offsetSeconds int) string {
	return template + "?t=" + strconv.Itoa(offsetSeconds)
}
