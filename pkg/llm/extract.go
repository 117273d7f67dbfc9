package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoTextContent means the reply carried no plain-text segment at all.
	ErrNoTextContent = errors.New("no text content in model reply")
	// ErrNoStructuredArray means no [...] substring could be located.
	ErrNoStructuredArray = errors.New("no JSON array found in model reply")
)

// MalformedPayloadError reports an extracted array that failed to parse,
// keeping a bounded prefix of the offending text for diagnostics.
type MalformedPayloadError struct {
	Err     error
	Preview string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed story payload: %v (text: %s)", e.Err, e.Preview)
}

func (e *MalformedPayloadError) Unwrap() error { return e.Err }

const previewLimit = 500

// extractStories recovers the ranked-story array from a free-text reply. The
// model is instructed to return bare JSON but routinely wraps it in code
// fences or surrounds it with prose, so the text is narrowed twice: first to
// the interior of the fenced block when fences are present, then to the span
// from the first '[' to the last ']'. The bracket scan is a heuristic, not a
// balanced parse: a stray ']' inside a string literal after the real closing
// bracket would be mis-scanned.
func extractStories(text string) ([]RankedStory, error) {
	text = stripCodeFence(strings.TrimSpace(text))

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, ErrNoStructuredArray
	}
	payload := strings.TrimSpace(text[start : end+1])

	var stories []RankedStory
	if err := json.Unmarshal([]byte(payload), &stories); err != nil {
		return nil, &MalformedPayloadError{Err: err, Preview: preview(payload)}
	}
	return stories, nil
}

func stripCodeFence(text string) string {
	const fence = "```"
	if i := strings.Index(text, fence+"json"); i >= 0 {
		text = text[i+len(fence+"json"):]
	} else if i := strings.Index(text, fence); i >= 0 {
		text = text[i+len(fence):]
	} else {
		return text
	}
	if j := strings.Index(text, fence); j >= 0 {
		text = text[:j]
	}
	return strings.TrimSpace(text)
}

func preview(s string) string {
	if len(s) <= previewLimit {
		return s
	}
	return s[:previewLimit]
}
