package models

import "fmt"

// Model identifies one of the supported Gemini models.
type Model string

const (
	ModelGemini3Flash  Model = "gemini-3-flash-preview"
	ModelGemini3Pro    Model = "gemini-3-pro-preview"
	ModelFlashLite     Model = "gemini-flash-lite-latest"
	ModelGemini25Flash Model = "gemini-2.5-flash-native-audio-preview-12-2025"
)

// DefaultModel is used when neither settings nor config name one.
const DefaultModel = ModelGemini3Flash

type ModelInfo struct {
	ID     Model  `json:"id"`
	Label  string `json:"label"`
	Series string `json:"series"`
}

// SupportedModels is the fixed list offered in the model selector.
var SupportedModels = []ModelInfo{
	{ID: ModelGemini3Flash, Label: "Gemini 3 Flash", Series: "Gemini 3 Series"},
	{ID: ModelGemini3Pro, Label: "Gemini 3 Pro (High Complexity)", Series: "Gemini 3 Series"},
	{ID: ModelGemini25Flash, Label: "Gemini 2.5 Flash", Series: "Gemini 2.5 Series"},
	{ID: ModelFlashLite, Label: "Gemini Flash Lite", Series: "Gemini 2.5 Series"},
}

// ParseModel validates a model id against SupportedModels.
func ParseModel(id string) (Model, error) {
	for _, m := range SupportedModels {
		if string(m.ID) == id {
			return m.ID, nil
		}
	}
	return "", fmt.Errorf("unsupported model %q", id)
}
