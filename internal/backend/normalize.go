package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/averma/studymate/internal/format"
	"github.com/averma/studymate/internal/guide"
)

// analysisUnavailable stands in for every video whose transcript the backend
// could not produce, keeping the gallery renderable.
const analysisUnavailable = "Transcript could not be fetched for this video."

// firstStringField decodes body as a JSON object and returns the first
// non-empty string among keys, in order. Anything else yields "".
func firstStringField(body []byte, keys ...string) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range keys {
		if value, ok := payload[key].(string); ok {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// normalizeDialogue accepts three response shapes: a JSON object carrying the
// script under one of several field names, a bare JSON string, or plain text.
// Valid JSON without a script field is the backend reporting a failure, not a
// dialogue; the raw-text fallback is reserved for bodies that are not JSON at
// all. Markdown role labels are flattened so playback never reads asterisks
// aloud.
func normalizeDialogue(body []byte) (string, error) {
	text := firstStringField(body, "dialogue", "audio_dialogue", "content", "text")
	if text == "" {
		var plain string
		switch {
		case json.Unmarshal(body, &plain) == nil:
			text = plain
		case json.Valid(body):
			if reason := firstStringField(body, "error", "message"); reason != "" {
				return "", fmt.Errorf("%w: %s", ErrEmptyDialogue, reason)
			}
			return "", ErrEmptyDialogue
		default:
			text = string(body)
		}
	}
	text = strings.TrimSpace(format.StripBoldLabels(text))
	if text == "" {
		return "", ErrEmptyDialogue
	}
	return text, nil
}

// normalizeGuide hands the body to the guide parser, which already tolerates
// fenced JSON and falls back to raw text.
func normalizeGuide(body []byte) guide.Guide {
	return guide.Parse(strings.TrimSpace(string(body)))
}

// normalizeAnalysis reduces the analyze endpoint's historical shapes to one
// string. An explicit error status prefers the backend's own message, and a
// shape with nothing usable becomes a fixed placeholder.
func normalizeAnalysis(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		switch payload["status"] {
		case "success":
			if text := firstStringField(body, "analysis"); text != "" {
				return text
			}
		case "error":
			if text := firstStringField(body, "message", "analysis", "error"); text != "" {
				return text
			}
			return analysisUnavailable
		}
		if text := firstStringField(body, "analysis", "transcript", "summary", "error"); text != "" {
			return text
		}
		return analysisUnavailable
	}

	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		if trimmed := strings.TrimSpace(plain); trimmed != "" {
			return trimmed
		}
		return analysisUnavailable
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return analysisUnavailable
}
