// Package guide models the structured study guide produced by the backend
// and knows how to recover it from the loosely formatted payloads the model
// actually returns.
package guide

import (
	"encoding/json"
	"strings"
)

// Guide is the normalized study-guide shape. When the backend payload cannot
// be parsed into the structured fields, RawText carries the body verbatim and
// the slices stay empty.
type Guide struct {
	KeyConcepts       []string `json:"key_concepts,omitempty" yaml:"key_concepts,omitempty"`
	Summary           string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	ExamTips          []string `json:"exam_tips,omitempty" yaml:"exam_tips,omitempty"`
	PracticeQuestions []string `json:"practice_questions,omitempty" yaml:"practice_questions,omitempty"`
	RawText           string   `json:"raw_text,omitempty" yaml:"raw_text,omitempty"`
}

// Structured reports whether the guide carries parsed fields rather than a
// raw fallback body.
func (g Guide) Structured() bool {
	return len(g.KeyConcepts) > 0 || len(g.ExamTips) > 0 || len(g.PracticeQuestions) > 0 || g.Summary != ""
}

// Empty reports whether the guide holds nothing at all.
func (g Guide) Empty() bool {
	return !g.Structured() && strings.TrimSpace(g.RawText) == ""
}

const fenceMarker = "```"

// Parse turns a backend study-guide body into a Guide. The body may be bare
// JSON, JSON wrapped in a markdown code fence, or arbitrary text; the text
// case falls back to RawText instead of failing.
func Parse(body string) Guide {
	body = strings.TrimSpace(body)
	candidate := StripFence(body)

	var parsed Guide
	if err := json.Unmarshal([]byte(candidate), &parsed); err == nil && parsed.Structured() {
		parsed.RawText = ""
		return parsed
	}
	return Guide{RawText: body}
}

// StripFence removes a surrounding markdown code fence, including a language
// tag on the opening line ("```json"). Text without a fence passes through.
func StripFence(body string) string {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, fenceMarker) {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, fenceMarker)
	// Drop the language tag up to the first newline, if any.
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		first := strings.TrimSpace(trimmed[:nl])
		if first == "" || isFenceTag(first) {
			trimmed = trimmed[nl+1:]
		}
	} else {
		trimmed = strings.TrimPrefix(trimmed, "json")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), fenceMarker)
	return strings.TrimSpace(trimmed)
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
