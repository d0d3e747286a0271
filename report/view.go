// Package report derives the read-only views of an analyzed borrower and
// renders the export memo.
package report

import (
	"strings"

	"riskradar/models"
)

// NoRippleText stands in for a signal without supply chain commentary.
const NoRippleText = "No network contagion data identified for this event."

// CategoryCount is one bar of the risk composition panel.
type CategoryCount struct {
	Category models.RiskCategory `json:"category"`
	Label    string              `json:"label"`
	Count    int                 `json:"count"`
	Share    float64             `json:"share"`
}

// CovenantTrigger links a signal to the credit agreement clause it touches.
type CovenantTrigger struct {
	SignalID string              `json:"signalId"`
	Title    string              `json:"title"`
	Severity models.RiskSeverity `json:"severity"`
	Clause   string              `json:"clause"`
}

// Ripple is the second order exposure of one signal.
type Ripple struct {
	SignalID string `json:"signalId"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

// Detail is everything the dashboard shows for the selected borrower.
type Detail struct {
	Borrower    models.Borrower          `json:"borrower"`
	Summary     string                   `json:"summary"`
	Benchmark   string                   `json:"benchmark"`
	Signals     []models.RiskSignal      `json:"signals"`
	Composition []CategoryCount          `json:"composition"`
	Covenants   []CovenantTrigger        `json:"covenants"`
	Ripples     []Ripple                 `json:"ripples"`
	Sources     []models.GroundingSource `json:"sources"`
}

// NewDetail assembles the detail view from the borrower and its cache entry.
func NewDetail(b models.Borrower, entry models.CacheEntry) Detail {
	signals := entry.Signals
	if signals == nil {
		signals = []models.RiskSignal{}
	}
	return Detail{
		Borrower:    b,
		Summary:     entry.Summary,
		Benchmark:   entry.Benchmark,
		Signals:     signals,
		Composition: CategoryComposition(signals),
		Covenants:   CovenantTriggers(signals),
		Ripples:     Ripples(signals),
		Sources:     Sources(signals, 3),
	}
}

// CategoryComposition counts signals per category in declaration order.
// Categories without signals are left out, except Neutral which is always
// listed.
func CategoryComposition(signals []models.RiskSignal) []CategoryCount {
	counts := make(map[models.RiskCategory]int, len(models.Categories))
	for _, s := range signals {
		counts[s.Category]++
	}
	total := len(signals)
	if total == 0 {
		total = 1
	}

	out := make([]CategoryCount, 0, len(models.Categories))
	for _, c := range models.Categories {
		n := counts[c]
		if n == 0 && c != models.CategoryNeutral {
			continue
		}
		out = append(out, CategoryCount{
			Category: c,
			Label:    c.Label(),
			Count:    n,
			Share:    float64(n) / float64(total),
		})
	}
	return out
}

// CovenantTriggers lists the signals whose covenant impact names a clause.
// "none" in any casing means no clause is touched.
func CovenantTriggers(signals []models.RiskSignal) []CovenantTrigger {
	out := []CovenantTrigger{}
	for _, s := range signals {
		clause := strings.TrimSpace(s.CovenantImpact)
		if clause == "" || strings.EqualFold(clause, "none") {
			continue
		}
		out = append(out, CovenantTrigger{
			SignalID: s.ID,
			Title:    s.Title,
			Severity: s.Severity,
			Clause:   clause,
		})
	}
	return out
}

// Ripples returns one entry per signal, falling back to NoRippleText.
func Ripples(signals []models.RiskSignal) []Ripple {
	out := make([]Ripple, 0, len(signals))
	for _, s := range signals {
		text := strings.TrimSpace(s.SupplyChainRipple)
		if text == "" {
			text = NoRippleText
		}
		out = append(out, Ripple{SignalID: s.ID, Title: s.Title, Text: text})
	}
	return out
}

// Sources collects distinct grounding sources across signals, keeping the
// first limit. limit <= 0 returns all of them.
func Sources(signals []models.RiskSignal, limit int) []models.GroundingSource {
	seen := make(map[string]bool)
	out := []models.GroundingSource{}
	for _, s := range signals {
		for _, src := range s.GroundingSources {
			if seen[src.URI] {
				continue
			}
			seen[src.URI] = true
			out = append(out, src)
			if limit > 0 && len(out) == limit {
				return out
			}
		}
	}
	return out
}
