package models

import "time"

// GroundingSource is a citation returned by a search grounded model call.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// CandidateEntity is a possible match for the lender's query.
// It only lives until the lender commits to it or dismisses the list.
type CandidateEntity struct {
	Name             string            `json:"name"`
	Ticker           string            `json:"ticker,omitempty"`
	Industry         string            `json:"industry"`
	Description      string            `json:"description"`
	GroundingSources []GroundingSource `json:"groundingSources,omitempty"`
}

type RiskSignal struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Source            string            `json:"source"`
	URL               string            `json:"url,omitempty"`
	Date              string            `json:"date"`
	Category          RiskCategory      `json:"category"`
	Severity          RiskSeverity      `json:"severity"`
	Summary           string            `json:"summary"`
	Impact            string            `json:"impact"`
	CovenantImpact    string            `json:"covenantImpact,omitempty"`
	SupplyChainRipple string            `json:"supplyChainRipple,omitempty"`
	GroundingSources  []GroundingSource `json:"groundingSources,omitempty"`
}

// AnalysisResult bundles one risk surveillance response.
type AnalysisResult struct {
	SummarySentence string       `json:"summarySentence"`
	BenchmarkScore  string       `json:"benchmarkScore"`
	Signals         []RiskSignal `json:"signals"`
}

// Trend is carried for display only; analysis always reports stable.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Borrower struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Industry       string       `json:"industry"`
	Ticker         string       `json:"ticker,omitempty"`
	RiskStatus     RiskSeverity `json:"riskStatus"`
	Trend          Trend        `json:"trend"`
	LastMonitored  string       `json:"lastMonitored"`
	SignalsCount   int          `json:"signalsCount"`
	IsReviewed     bool         `json:"isReviewed"`
	BenchmarkScore string       `json:"benchmarkScore"`
}

// CacheEntry holds the analysis behind a Borrower. It is written once,
// together with the Borrower, and only read afterwards.
type CacheEntry struct {
	Signals   []RiskSignal `json:"signals"`
	Summary   string       `json:"summary"`
	Benchmark string       `json:"benchmark"`
}

// NewBorrower builds the portfolio record for a committed candidate and its analysis.
func NewBorrower(id string, c CandidateEntity, result AnalysisResult, now time.Time) Borrower {
	return Borrower{
		ID:             id,
		Name:           c.Name,
		Industry:       c.Industry,
		Ticker:         c.Ticker,
		RiskStatus:     AggregateSeverity(result.Signals),
		Trend:          TrendStable,
		LastMonitored:  now.UTC().Format("2006-01-02"),
		SignalsCount:   len(result.Signals),
		IsReviewed:     false,
		BenchmarkScore: result.BenchmarkScore,
	}
}

// NewCacheEntry derives the cache record for result.
func NewCacheEntry(result AnalysisResult) CacheEntry {
	return CacheEntry{
		Signals:   result.Signals,
		Summary:   result.SummarySentence,
		Benchmark: result.BenchmarkScore,
	}
}
