// Package jsonextract recovers a JSON value from model output that is only
// loosely guaranteed to be JSON.
//
// Strategies are tried in a fixed order: the whole string, then the first
// fenced code block, then the span from the first opening brace or bracket
// to the last closing one. The first strategy that yields a valid JSON value
// wins. The heuristic can mis-extract when prose contains several JSON-like
// fragments; callers only ever see a complete value or ErrParseFailure.
package jsonextract

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrParseFailure means no strategy produced a JSON value.
var ErrParseFailure = errors.New("model response did not contain a valid JSON structure")

// Strategy tries to pull a JSON document out of text. ok is false when the
// strategy does not apply or its candidate is not valid JSON.
type Strategy struct {
	Name    string
	Extract func(text string) (raw json.RawMessage, ok bool)
}

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// Direct parses the whole trimmed text.
var Direct = Strategy{Name: "direct", Extract: func(text string) (json.RawMessage, bool) {
	return validJSON(strings.TrimSpace(text))
}}

// Fenced parses the interior of the first ``` or ```json block.
var Fenced = Strategy{Name: "fenced", Extract: func(text string) (json.RawMessage, bool) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return nil, false
	}
	return validJSON(strings.TrimSpace(m[1]))
}}

// Span parses from whichever of '{' or '[' appears first to whichever of
// '}' or ']' appears last.
var Span = Strategy{Name: "span", Extract: func(text string) (json.RawMessage, bool) {
	start := firstIndex(text, "{", "[")
	end := lastIndex(text, "}", "]")
	if start == -1 || end == -1 || end <= start {
		return nil, false
	}
	return validJSON(text[start : end+1])
}}

// DefaultStrategies is the fallback chain in the order it must run.
var DefaultStrategies = []Strategy{Direct, Fenced, Span}

// Extractor runs a chain of strategies.
type Extractor struct {
	strategies []Strategy
	// OnMatch, if set, is told which strategy succeeded.
	OnMatch func(strategy string)
}

func New(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Extractor{strategies: strategies}
}

// Raw returns the first JSON document any strategy recovers from text.
func (e *Extractor) Raw(text string) (json.RawMessage, error) {
	for _, s := range e.strategies {
		if raw, ok := s.Extract(text); ok {
			if e.OnMatch != nil {
				e.OnMatch(s.Name)
			}
			return raw, nil
		}
	}
	return nil, ErrParseFailure
}

// Decode extracts a JSON document from text and unmarshals it into v.
func (e *Extractor) Decode(text string, v any) error {
	raw, err := e.Raw(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrParseFailure, err)
	}
	return nil
}

// Extract runs the default chain and returns the decoded generic value.
func Extract(text string) (any, error) {
	var v any
	if err := New().Decode(text, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func validJSON(s string) (json.RawMessage, bool) {
	if s == "" || !json.Valid([]byte(s)) {
		return nil, false
	}
	return json.RawMessage(s), true
}

func firstIndex(s string, subs ...string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.Index(s, sub); i != -1 && (best == -1 || i < best) {
			best = i
		}
	}
	return best
}

func lastIndex(s string, subs ...string) int {
	best := -1
	for _, sub := range subs {
		if i := strings.LastIndex(s, sub); i > best {
			best = i
		}
	}
	return best
}
