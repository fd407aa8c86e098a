package moderation

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	scriptBlockRegex  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	jsProtocolRegex   = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRegex = regexp.MustCompile(`(?i)\bon\w+\s*=`)
)

// Sanitizer strips markup and dangerous protocols from comment content.
// The output is the only form that ever gets persisted.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a sanitizer that removes all HTML
func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize removes script blocks, markup tags, javascript: pseudo-protocols
// and inline event-handler patterns, and trims surrounding whitespace.
// Deterministic and pure; safe for concurrent use.
func (s *Sanitizer) Sanitize(content string) string {
	if content == "" {
		return ""
	}

	// Drop script blocks wholesale so their bodies do not survive as text
	out := scriptBlockRegex.ReplaceAllString(content, "")

	// Strip every remaining tag. The policy escapes entities for HTML
	// contexts; comments are stored as plain text, so unescape afterwards.
	out = s.policy.Sanitize(out)
	out = html.UnescapeString(out)

	out = jsProtocolRegex.ReplaceAllString(out, "")
	out = eventHandlerRegex.ReplaceAllString(out, "")

	return strings.TrimSpace(out)
}
