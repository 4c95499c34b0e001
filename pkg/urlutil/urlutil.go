// Package urlutil provides URL validation, resolution, and filename
// sanitization helpers shared by the extraction pipeline and the
// download manager. All functions are pure.
package urlutil

import (
	"net/url"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
var whitespaceRuns = regexp.MustCompile(`\s+`)

// IsValid reports whether rawURL is an absolute http or https URL with a
// non-empty host. Anything else (relative references, other schemes,
// unparsable input) is rejected.
func IsValid(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// Resolve resolves reference against baseURL using standard RFC 3986
// resolution. data: references pass through unchanged since they carry
// their payload inline and have no base to resolve against. If either
// input fails to parse the reference is returned as-is.
func Resolve(baseURL, reference string) string {
	if strings.HasPrefix(reference, "data:") {
		return reference
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return reference
	}
	ref, err := url.Parse(reference)
	if err != nil {
		return reference
	}

	return base.ResolveReference(ref).String()
}

// Domain returns the host component of rawURL for display purposes, or
// the input itself when it cannot be parsed.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	return parsed.Host
}

// SanitizeFilename strips characters that are unsafe in filesystem names
// and collapses whitespace runs into single separators.
func SanitizeFilename(text string) string {
	clean := unsafeChars.ReplaceAllString(text, "")
	clean = whitespaceRuns.ReplaceAllString(strings.TrimSpace(clean), "-")
	return clean
}
