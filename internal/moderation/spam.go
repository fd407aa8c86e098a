package moderation

import (
	"fmt"
	"regexp"
	"strings"
)

// urlRegex matches http/https URLs, www. hosts, and bare .com domains
var urlRegex = regexp.MustCompile(`(https?://\S+)|(www\.\S+)|([a-zA-Z0-9]+\.com[/a-zA-Z0-9]*)`)

const (
	// capsRatioThreshold is the uppercase-letter ratio above which a comment
	// is considered shouting, once it is longer than capsMinLength.
	capsRatioThreshold = 0.7
	capsMinLength      = 20

	// repeatRunLength is the number of consecutive identical characters
	// treated as flooding.
	repeatRunLength = 6
)

// SpamResult is the verdict of the heuristics engine. Reasons are
// human-readable and suitable for moderator display or rejection reasons.
type SpamResult struct {
	IsSpam  bool
	Reasons []string
}

// SpamDetector scores comment text against keyword, URL, capitalization
// and repetition heuristics. Each signal is independently sufficient.
type SpamDetector struct {
	keywords []string
	maxURLs  int
}

// NewSpamDetector creates a detector with the given denylist and URL budget
func NewSpamDetector(keywords []string, maxURLs int) *SpamDetector {
	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(strings.ToLower(k)); k != "" {
			lowered = append(lowered, k)
		}
	}
	return &SpamDetector{keywords: lowered, maxURLs: maxURLs}
}

// Check scores sanitized content. Pure, no I/O.
func (d *SpamDetector) Check(content string) SpamResult {
	var reasons []string

	lower := strings.ToLower(content)
	for _, keyword := range d.keywords {
		if strings.Contains(lower, keyword) {
			reasons = append(reasons, fmt.Sprintf("Contains spam keyword: %q", keyword))
		}
	}

	if urls := urlRegex.FindAllString(content, -1); len(urls) > d.maxURLs {
		reasons = append(reasons, "Too many URLs")
	}

	if hasExcessiveCaps(content) {
		reasons = append(reasons, "Excessive capitalization")
	}

	if hasRepeatedRun(content, repeatRunLength) {
		reasons = append(reasons, "Repetitive characters detected")
	}

	return SpamResult{IsSpam: len(reasons) > 0, Reasons: reasons}
}

// hasExcessiveCaps reports whether uppercase letters dominate the text
func hasExcessiveCaps(content string) bool {
	runes := []rune(content)
	if len(runes) <= capsMinLength {
		return false
	}
	upper := 0
	for _, r := range runes {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return float64(upper)/float64(len(runes)) > capsRatioThreshold
}

// hasRepeatedRun reports whether any character repeats n or more times in a
// row. RE2 has no backreferences, so this is a linear scan.
func hasRepeatedRun(content string, n int) bool {
	count := 0
	prev := rune(-1)
	for _, r := range content {
		if r == prev {
			count++
			if count >= n {
				return true
			}
		} else {
			prev = r
			count = 1
		}
	}
	return false
}
