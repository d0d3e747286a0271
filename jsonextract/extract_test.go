package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want any
	}{
		{"whole string object", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"surrounding whitespace", "\n  {\"a\":1}\n", map[string]any{"a": float64(1)}},
		{"fenced array", "Here you go:\n```\n[1,2,3]\n```\nDone.", []any{float64(1), float64(2), float64(3)}},
		{"fenced json tag", "```json\n{\"ok\":true}\n```", map[string]any{"ok": true}},
		{"prose around object", `prefix text {"x":"y"} suffix`, map[string]any{"x": "y"}},
		{"array before object", `results: [{"name":"Acme"}] thanks`, []any{map[string]any{"name": "Acme"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractFailure(t *testing.T) {
	for _, text := range []string{
		"not json at all",
		"",
		"} backwards {",
		"{ unbalanced",
		"```json\nnot json\n```",
	} {
		_, err := Extract(text)
		assert.ErrorIs(t, err, ErrParseFailure, "text %q", text)
	}
}

func TestBrokenFenceFallsThroughToSpan(t *testing.T) {
	text := "```json\n{\"a\": oops}\n``` but really {\"a\": 2}"
	// span runs from the first '{' to the last '}', which covers the broken
	// fenced value as well, so nothing can be recovered.
	_, err := Extract(text)
	assert.ErrorIs(t, err, ErrParseFailure)

	text = "```\nnope\n```\n{\"a\": 2}"
	got, err := Extract(text)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(2)}, got)
}

func TestStrategyOrder(t *testing.T) {
	var matched []string
	e := New()
	e.OnMatch = func(s string) { matched = append(matched, s) }

	_, err := e.Raw(`{"a":1}`)
	require.NoError(t, err)
	_, err = e.Raw("```\n{\"a\":1}\n```")
	require.NoError(t, err)
	_, err = e.Raw(`see {"a":1}.`)
	require.NoError(t, err)

	assert.Equal(t, []string{"direct", "fenced", "span"}, matched)
}

func TestFencedWinsOverSpan(t *testing.T) {
	text := "{draft} ```json\n{\"final\":true}\n``` {other}"
	raw, err := New().Raw(text)
	require.NoError(t, err)
	assert.JSONEq(t, `{"final":true}`, string(raw))
}

func TestDecodeShape(t *testing.T) {
	var out []map[string]any
	err := New().DecodeShape(`[{"name":"Acme Corp","ticker":null}]`, CandidateListShape, &out)
	require.NoError(t, err)
	assert.Len(t, out, 1)

	err = New().DecodeShape(`[{"name":"Toyota Motor","ticker":7203,"description":true}]`, CandidateListShape, &out)
	require.NoError(t, err)

	err = New().DecodeShape(`{"name":"Acme Corp"}`, CandidateListShape, &out)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	var analysis map[string]any
	err = New().DecodeShape(`{"signals":"none"}`, AnalysisShape, &analysis)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	err = New().DecodeShape(`{"summarySentence":"ok","benchmarkScore":72,"signals":[]}`, AnalysisShape, &analysis)
	assert.NoError(t, err)
}
