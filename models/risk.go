package models

import "strings"

// RiskCategory is the closed set of categories a signal can be filed under.
type RiskCategory string

const (
	CategoryLegal         RiskCategory = "Legal"
	CategoryRegulatory    RiskCategory = "Regulatory"
	CategoryManagement    RiskCategory = "Management"
	CategoryOperational   RiskCategory = "Operational"
	CategoryEnvironmental RiskCategory = "Environmental"
	CategoryNeutral       RiskCategory = "Neutral"
)

// Categories lists every category in display order.
var Categories = []RiskCategory{
	CategoryLegal,
	CategoryRegulatory,
	CategoryManagement,
	CategoryOperational,
	CategoryEnvironmental,
	CategoryNeutral,
}

var categoryLabels = map[RiskCategory]string{
	CategoryLegal:         "Legal & Litigation",
	CategoryRegulatory:    "Regulatory Compliance",
	CategoryManagement:    "Management & Governance",
	CategoryOperational:   "Operational Disruption",
	CategoryEnvironmental: "Environmental & Social",
	CategoryNeutral:       "General Information",
}

// Label returns the human readable name shown on the dashboard.
func (c RiskCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return categoryLabels[CategoryNeutral]
}

// ParseCategory maps whatever the model returned onto the closed enum.
// It accepts the short name ("Legal"), the enum key ("LEGAL") or the label
// ("Legal & Litigation") in any case. Anything else is Neutral.
func ParseCategory(raw string) RiskCategory {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return CategoryNeutral
	}
	for _, c := range Categories {
		if s == strings.ToLower(string(c)) || s == strings.ToLower(c.Label()) {
			return c
		}
	}
	return CategoryNeutral
}

// RiskSeverity is the closed severity scale.
type RiskSeverity string

const (
	SeverityCritical RiskSeverity = "Critical"
	SeverityHigh     RiskSeverity = "High"
	SeverityMedium   RiskSeverity = "Medium"
	SeverityLow      RiskSeverity = "Low"
	SeverityNone     RiskSeverity = "None"
)

// Severities lists the scale from most to least severe.
var Severities = []RiskSeverity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityNone,
}

// Rank orders severities: Critical > High > Medium > Low > None.
func (s RiskSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity maps a model supplied severity onto the enum, case-insensitively.
// Unknown values become None.
func ParseSeverity(raw string) RiskSeverity {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, sev := range Severities {
		if s == strings.ToLower(string(sev)) {
			return sev
		}
	}
	return SeverityNone
}

// AggregateSeverity returns the single highest severity present in signals.
// No signals means None.
func AggregateSeverity(signals []RiskSignal) RiskSeverity {
	overall := SeverityNone
	for _, sig := range signals {
		if sig.Severity.Rank() > overall.Rank() {
			overall = sig.Severity
		}
	}
	return overall
}
