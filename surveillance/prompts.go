package surveillance

import (
	"fmt"
	"time"
)

// maxCandidates is how many entities resolution asks for and keeps.
const maxCandidates = 3

func resolutionPrompt(query string) string {
	return fmt.Sprintf(`Search for %d corporate entities matching: "%s".
Return the results as a raw JSON array of objects with these keys: name, ticker, industry, description.
Use an empty string for ticker when the company is not listed.
DO NOT include any conversational text or explanation. Just the JSON.`,
		maxCandidates, query)
}

func analysisPrompt(name, industry string, now time.Time) string {
	year := now.Year()
	return fmt.Sprintf(`It is currently %s. Perform deep risk surveillance for "%s" (%s).

REQUIRED TASKS:
1. Find the latest risk signals from %d/%d using search.
2. Perform "Covenant Mapping": for each signal name the credit agreement clause type it could trigger (for example MAC clause, leverage covenant, change of control), or "None".
3. Perform "Supply Chain Ripple" analysis: the second order effect on the borrower's suppliers and customers.
4. Return results as a single JSON object with:
   - summarySentence (1 sentence)
   - benchmarkScore (a string, e.g. "72/100")
   - signals (array of objects with: title, source, url, date, category, severity, summary, impact, covenantImpact, supplyChainRipple)

category must be one of: Legal, Regulatory, Management, Operational, Environmental, Neutral.
severity must be one of: Critical, High, Medium, Low, None.

ONLY return the JSON. No markdown blocks if possible, no preamble.`,
		now.Format("January 2006"), name, industry, year-1, year)
}
