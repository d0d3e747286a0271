package jsonextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrShapeMismatch means the recovered JSON is not the structure the caller asked for.
var ErrShapeMismatch = errors.New("model response has an unexpected shape")

// Shape is a JSON schema the recovered document must satisfy. Only
// structure is checked; field vocabulary is coerced later.
type Shape struct {
	name   string
	loader gojsonschema.JSONLoader
}

// NewShape compiles a Go map into a Shape.
func NewShape(name string, schema map[string]any) Shape {
	return Shape{name: name, loader: gojsonschema.NewGoLoader(schema)}
}

// Validate checks raw against the shape.
func (s Shape) Validate(raw json.RawMessage) error {
	result, err := gojsonschema.Validate(s.loader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrShapeMismatch, s.name, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("%w: %s: %s", ErrShapeMismatch, s.name, strings.Join(errs, "; "))
	}
	return nil
}

// DecodeShape extracts, validates and unmarshals in one step.
func (e *Extractor) DecodeShape(text string, shape Shape, v any) error {
	raw, err := e.Raw(text)
	if err != nil {
		return err
	}
	if err := shape.Validate(raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrParseFailure, err)
	}
	return nil
}

// anyValue accepts every JSON value; text fields are coerced when decoded.
var anyValue = map[string]any{}

// CandidateListShape is an array of entity objects.
var CandidateListShape = NewShape("candidates", map[string]any{
	"type": "array",
	"items": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":        anyValue,
			"ticker":      anyValue,
			"industry":    anyValue,
			"description": anyValue,
		},
	},
})

// AnalysisShape is an object whose signals, when present, are objects.
var AnalysisShape = NewShape("analysis", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"summarySentence": anyValue,
		"benchmarkScore":  anyValue,
		"signals": map[string]any{
			"type":  []any{"array", "null"},
			"items": map[string]any{"type": "object"},
		},
	},
})
