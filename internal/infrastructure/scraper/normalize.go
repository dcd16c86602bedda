package scraper

import (
	"regexp"
	"strings"
)

var priceNoise = regexp.MustCompile(`[^\d.,]`)

// NormalizePrice keeps only digits, '.' and ','. Separators left dangling by a
// stripped currency label ("Rs. 2,990") are trimmed from the ends.
func NormalizePrice(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.Trim(priceNoise.ReplaceAllString(raw, ""), ".,")
}

// AbsoluteURL rewrites protocol-relative and root-relative references against base
func AbsoluteURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	case strings.HasPrefix(ref, "/"):
		return strings.TrimRight(base, "/") + ref
	default:
		return ref
	}
}
