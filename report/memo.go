package report

import (
	"fmt"
	"strings"
	"time"

	"riskradar/models"
)

// MemoLine is one numbered row of the signal log.
type MemoLine struct {
	Number   string
	Title    string
	Impact   string
	Severity models.RiskSeverity
}

// Memo is the internal risk assessment exported for a credit committee.
type Memo struct {
	Reference string
	Date      string
	Name      string
	Industry  string
	Status    models.RiskSeverity
	Benchmark string
	Summary   string
	Lines     []MemoLine
}

// NewMemo builds the memo for a borrower. The reference is the last eight
// characters of the borrower id, upper-cased.
func NewMemo(b models.Borrower, entry models.CacheEntry, now time.Time) Memo {
	ref := b.ID
	if len(ref) > 8 {
		ref = ref[len(ref)-8:]
	}
	m := Memo{
		Reference: strings.ToUpper(ref),
		Date:      now.UTC().Format("2006-01-02"),
		Name:      b.Name,
		Industry:  b.Industry,
		Status:    b.RiskStatus,
		Benchmark: entry.Benchmark,
		Summary:   entry.Summary,
		Lines:     make([]MemoLine, 0, len(entry.Signals)),
	}
	for i, s := range entry.Signals {
		m.Lines = append(m.Lines, MemoLine{
			Number:   fmt.Sprintf("%02d", i+1),
			Title:    s.Title,
			Impact:   s.Impact,
			Severity: s.Severity,
		})
	}
	return m
}

// Text renders the memo as plain text for the clipboard export.
func (m Memo) Text() string {
	var b strings.Builder
	b.WriteString("RISKRADAR TERMINAL\n")
	b.WriteString("INTERNAL RISK ASSESSMENT\n\n")
	fmt.Fprintf(&b, "ID: %s\n", m.Reference)
	fmt.Fprintf(&b, "TIMESTAMP: %s\n", m.Date)
	b.WriteString("STATUS: OFFICIAL RECORD\n\n")

	b.WriteString("01. Subject\n")
	fmt.Fprintf(&b, "    %s\n", m.Name)
	fmt.Fprintf(&b, "    %s Sector Monitor\n", m.Industry)
	fmt.Fprintf(&b, "    Overall risk: %s\n", m.Status)
	if m.Benchmark != "" {
		fmt.Fprintf(&b, "    Peer benchmark: %s\n", m.Benchmark)
	}
	b.WriteString("\n")

	b.WriteString("02. OSINT Summary\n")
	fmt.Fprintf(&b, "    \"%s\"\n\n", m.Summary)

	b.WriteString("03. Signal Log\n")
	if len(m.Lines) == 0 {
		b.WriteString("    No signals detected for the current surveillance cycle.\n")
	}
	for _, l := range m.Lines {
		fmt.Fprintf(&b, "    %s  [%s] %s\n", l.Number, strings.ToUpper(string(l.Severity)), l.Title)
		if l.Impact != "" {
			fmt.Fprintf(&b, "        %s\n", l.Impact)
		}
	}
	b.WriteString("\n")

	b.WriteString("04. Credit Officer Attestation\n")
	b.WriteString("    Surveillance Officer Signature: ______________________\n")
	b.WriteString("    Review Date & Timestamp:        ______________________\n")
	return b.String()
}

// RenderMemo is NewMemo followed by Text.
func RenderMemo(b models.Borrower, entry models.CacheEntry, now time.Time) string {
	return NewMemo(b, entry, now).Text()
}
