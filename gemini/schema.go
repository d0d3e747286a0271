package gemini

import "google.golang.org/genai"

func stringField(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

// CandidateListSchema enforces the entity resolution output when the call
// runs without search grounding.
func CandidateListSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":        stringField("Legal name of the company"),
				"ticker":      stringField("Exchange ticker, empty when private"),
				"industry":    stringField("Primary industry"),
				"description": stringField("One sentence description"),
			},
			Required: []string{"name", "industry", "description"},
		},
	}
}

// AnalysisSchema enforces the risk surveillance output when the call runs
// without search grounding.
func AnalysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summarySentence": stringField("One sentence risk summary"),
			"benchmarkScore":  stringField("Comparative score such as 72/100"),
			"signals": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":             stringField("Headline"),
						"source":            stringField("Publisher"),
						"url":               stringField("Link to the article"),
						"date":              stringField("Publication date"),
						"category":          stringField("Legal, Regulatory, Management, Operational, Environmental or Neutral"),
						"severity":          stringField("Critical, High, Medium, Low or None"),
						"summary":           stringField("What happened"),
						"impact":            stringField("Credit impact"),
						"covenantImpact":    stringField("Credit agreement clause this could trigger"),
						"supplyChainRipple": stringField("Second order effect on suppliers and customers"),
					},
					Required: []string{"title", "source", "date", "category", "severity", "summary", "impact"},
				},
			},
		},
		Required: []string{"summarySentence", "benchmarkScore", "signals"},
	}
}
