package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sevigo/pr-warden/internal/core"
)

var (
	// ErrNoSuggestionArray means the model output contained no JSON array of objects.
	ErrNoSuggestionArray = errors.New("no JSON suggestion array in model output")
	// ErrMalformedSuggestions means an array was found but could not be decoded.
	ErrMalformedSuggestions = errors.New("malformed JSON suggestion array")
)

var (
	// Matches: Suggested Label: `bug`
	labelRegex = regexp.MustCompile("Suggested Label:\\s*`([^`\\n]+)`")
	// First array-of-objects shaped substring, tolerant of surrounding prose.
	suggestionArrayRegex = regexp.MustCompile(`\[\s*\{[\s\S]*?\}\s*\]`)
)

// ExtractLabel returns the label suggested in the review text. The token must be one of
// core.Labels; an unknown token is reported as absent together with the raw token.
func ExtractLabel(text string) (label core.Label, raw string, ok bool) {
	matches := labelRegex.FindStringSubmatch(text)
	if len(matches) != 2 {
		return "", "", false
	}
	raw = matches[1]
	label, ok = core.ParseLabel(raw)
	return label, raw, ok
}

// ParseSuggestions decodes line suggestions from model output.
// It accepts a bare JSON array, one wrapped in a code fence, or the first
// array-shaped substring surrounded by prose. Entries without a file, a
// positive line or a comment are dropped.
func ParseSuggestions(raw string) ([]core.Suggestion, error) {
	text := stripCodeFence(raw)

	var items []core.Suggestion
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &items); err == nil {
			return validSuggestions(items), nil
		}
	}

	match := suggestionArrayRegex.FindString(text)
	if match == "" {
		return nil, ErrNoSuggestionArray
	}
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSuggestions, err)
	}
	return validSuggestions(items), nil
}

func validSuggestions(items []core.Suggestion) []core.Suggestion {
	out := make([]core.Suggestion, 0, len(items))
	for _, s := range items {
		s.FilePath = strings.TrimPrefix(strings.TrimSpace(s.FilePath), "b/")
		s.Comment = strings.TrimSpace(s.Comment)
		if s.FilePath == "" || s.LineNumber <= 0 || s.Comment == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}

// stripCodeFence removes ```json ... ``` wrapping that some models add around their output.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	idx := strings.Index(trimmed, "\n")
	if idx < 0 {
		return trimmed
	}
	inner := trimmed[idx+1:]
	if lastFence := strings.LastIndex(inner, "```"); lastFence >= 0 {
		inner = inner[:lastFence]
	}
	return strings.TrimSpace(inner)
}
