package surveillance

import (
	"encoding/json"
	"strings"
)

// looseString accepts whatever the model put in a text field. Anything that
// is not a string or null is kept as its literal JSON text.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	*s = looseString(raw)
	return nil
}

func (s looseString) String() string { return strings.TrimSpace(string(s)) }

type rawCandidate struct {
	Name        looseString `json:"name"`
	Ticker      looseString `json:"ticker"`
	Industry    looseString `json:"industry"`
	Description looseString `json:"description"`
}

type rawSignal struct {
	Title             looseString `json:"title"`
	Source            looseString `json:"source"`
	URL               looseString `json:"url"`
	Date              looseString `json:"date"`
	Category          looseString `json:"category"`
	Severity          looseString `json:"severity"`
	Summary           looseString `json:"summary"`
	Impact            looseString `json:"impact"`
	CovenantImpact    looseString `json:"covenantImpact"`
	SupplyChainRipple looseString `json:"supplyChainRipple"`
}

type rawAnalysis struct {
	SummarySentence looseString `json:"summarySentence"`
	BenchmarkScore  looseString `json:"benchmarkScore"`
	Signals         []rawSignal `json:"signals"`
}
