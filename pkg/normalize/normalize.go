package normalize

import (
	"regexp"
	"strings"
)

// Channel URL patterns, tried in order. The capture group is the channel
// segment that becomes the handle.
var handlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/@([a-zA-Z0-9_\-\.]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/c/([a-zA-Z0-9_\-\.]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/channel/([a-zA-Z0-9_\-]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/user/([a-zA-Z0-9_\-\.]+)`),
}

var (
	invalidSlugChars  = regexp.MustCompile(`[^a-z0-9_]`)
	repeatUnderscores = regexp.MustCompile(`_+`)
	sitePrefixPattern = regexp.MustCompile(`^https?://(www\.)?higgsfield\.ai`)
)

// SanitizeSlug normalizes free text into a snake_case slug: lowercase,
// spaces and hyphens become underscores, everything outside [a-z0-9_] is
// stripped, runs of underscores collapse. Empty output means the input had
// no usable characters; callers treat that as invalid.
func SanitizeSlug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	s = invalidSlugChars.ReplaceAllString(s, "")
	s = repeatUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ExtractHandle pulls a creator handle out of free text. It accepts full
// channel URLs (@handle, /c/, /channel/, /user/ forms), a bare @handle, or
// just the name. Returns "" when nothing usable survives sanitization.
func ExtractHandle(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, pattern := range handlePatterns {
		if m := pattern.FindStringSubmatch(raw); m != nil {
			return SanitizeSlug(m[1])
		}
	}
	if strings.HasPrefix(raw, "@") {
		return SanitizeSlug(raw[1:])
	}
	return SanitizeSlug(raw)
}

// NormalizePagePath turns a pasted page link or bare path into a
// leading-slash path. A full site URL has its origin stripped first.
func NormalizePagePath(raw string) string {
	p := sitePrefixPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
