// Package sanitize screens free-text fields that end up inside model
// prompts. Texts come from two untrusted directions, user input on its
// way in and model output on its way back, and both pass through the
// same checks before they touch the domain model.
package sanitize

import (
	"fmt"
	"regexp"
	"strings"
)

// injection phrase patterns, matched against normalized
// (lowercased, whitespace-collapsed) text
var injectionPatterns = []*regexp.Regexp{
	// instruction override attempts
	regexp.MustCompile(`(?:ignore|disregard|forget)(?:\s+(?:all|the|your|previous))?\s+(?:above|instructions|prompt)`),
	regexp.MustCompile(`(?:your|the)\s+(?:new|actual|real)\s+instructions`),
	regexp.MustCompile(`(?:do\s+not|don'?t)\s+(?:follow|obey|use)\s+(?:the|your|previous)\s+(?:above|instructions|prompt)`),

	// role changes
	regexp.MustCompile(`(?:act|behave|perform)(?:\s+as)?\s+(?:if|though|like)`),
	regexp.MustCompile(`you\s+(?:are|as|should\s+be|will\s+be)\s+(?:a|an|the)`),
	regexp.MustCompile(`(?:respond|reply|answer)\s+(?:as|like|in\s+the\s+style\s+of)`),

	// system prompt probing
	regexp.MustCompile(`(?:what\s+(?:are|is|were))?\s+your\s+(?:instructions|prompt|system\s+message|programming)`),
	regexp.MustCompile(`(?:show|display|reveal|tell\s+me)\s+(?:your|the)\s+(?:instructions|prompt|system\s+message)`),
	regexp.MustCompile(`system\s+prompt`),
	regexp.MustCompile(`developer\s+mode`),

	// text extraction / repetition requests
	regexp.MustCompile(`(?:repeat|echo|restate)\s+(?:the\s+)?(?:above|words|text|prompt)`),
}

var (
	// zero-width characters and joiners, checked on the raw text
	unicodeEvasionRegex = regexp.MustCompile("[\u200B-\u200F\u2060-\u2064\uFEFF]")

	fencedCodeBlockRegex = regexp.MustCompile("```\\w*\\n[\\s\\S]+?\\n```")

	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Sanitize validates text against the prompt injection heuristics and
// returns it with surrounding whitespace trimmed. The returned error
// describes the first violated check.
func Sanitize(text string) (string, error) {
	normalized := strings.TrimSpace(whitespaceRegex.ReplaceAllString(strings.ToLower(text), " "))

	for _, pattern := range injectionPatterns {
		if match := pattern.FindString(normalized); match != "" {
			return "", fmt.Errorf("potential prompt injection detected, pattern matched: %q", match)
		}
	}

	// a single char repeated 11+ times, or a short sequence repeated 6+ times
	if match := repeatedCharRun(normalized, 11); match != "" {
		return "", fmt.Errorf("suspicious character repetition detected: %q", match)
	}
	if match := repeatedSequence(normalized, 3, 6); match != "" {
		return "", fmt.Errorf("suspicious character repetition detected: %q", match)
	}

	// checked on the raw text to preserve the unicode
	if unicodeEvasionRegex.MatchString(text) {
		return "", fmt.Errorf("suspicious unicode characters detected")
	}

	if strings.Contains(text, "```") || strings.Contains(text, "~~~") {
		if fencedCodeBlockRegex.MatchString(text) {
			return "", fmt.Errorf("code block detected")
		}
	}

	return strings.TrimSpace(text), nil
}

// SanitizeWithLimit runs Sanitize and additionally bounds the rune length
// of the trimmed text.
func SanitizeWithLimit(text string, maxLen int) (string, error) {
	sanitized, err := Sanitize(text)
	if err != nil {
		return "", err
	}
	if runeLen := len([]rune(sanitized)); runeLen > maxLen {
		return "", fmt.Errorf("text too long: %d chars, max %d", runeLen, maxLen)
	}
	return sanitized, nil
}

// repeatedCharRun finds a run of minRun or more equal runes.
// Go regexps have no backreferences, so runs are found by scanning.
func repeatedCharRun(text string, minRun int) string {
	runes := []rune(text)
	runStart := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && runes[i] == runes[runStart] {
			continue
		}
		if i-runStart >= minRun {
			return string(runes[runStart:i])
		}
		runStart = i
	}
	return ""
}

// repeatedSequence finds a 1..maxSeqLen rune sequence immediately
// repeated minTotal or more times in a row.
func repeatedSequence(text string, maxSeqLen, minTotal int) string {
	runes := []rune(text)
	for seqLen := 1; seqLen <= maxSeqLen; seqLen++ {
		needed := seqLen * minTotal
		for start := 0; start+needed <= len(runes); start++ {
			seq := string(runes[start : start+seqLen])
			repeats := 1
			for pos := start + seqLen; pos+seqLen <= len(runes); pos += seqLen {
				if string(runes[pos:pos+seqLen]) != seq {
					break
				}
				repeats++
			}
			if repeats >= minTotal {
				return strings.Repeat(seq, repeats)
			}
		}
	}
	return ""
}
