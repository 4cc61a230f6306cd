package eligibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/fields"
)

// Minimum GPA that satisfies the academic criterion.
const gpaThreshold = 3.0

var (
	contactKeywords    = []string{"contact", "phone", "email", "mobile"}
	motivationKeywords = []string{"motivation", "interest", "purpose", "goal"}
)

// slotOutcome is one slot's contribution to the report.
type slotOutcome struct {
	summary  []string
	findings []Finding
	score    int
	met      bool
}

func missingFinding(kind constants.SlotKind) Finding {
	return Finding{
		Slot:  kind,
		Level: Missing,
		Flag:  "❌ Missing: " + kind.Title(),
	}
}

// evaluate applies the slot's eligibility rule to its extracted text.
//
// The statutory declaration is deliberately narrative-only: it counts toward
// the criteria denominator but never toward the score or numerator. That
// asymmetry is inherited behavior the review UI depends on; see DESIGN.md
// before "fixing" it.
func evaluate(kind constants.SlotKind, text string) slotOutcome {
	lower := strings.ToLower(text)

	switch kind {
	case constants.SlotTranscript:
		out := slotOutcome{summary: []string{"Transcript found."}}
		gpa, ok := fields.ExtractGPA(text)
		if !ok {
			out.findings = append(out.findings, Finding{kind, Warning, "⚠️ GPA not found in transcript"})
			return out
		}
		out.summary = append(out.summary, "GPA detected: "+formatGPA(gpa))
		if gpa >= gpaThreshold {
			out.findings = append(out.findings, Finding{kind, Positive, "✅ GPA meets requirement"})
			out.score = 2
			out.met = true
		} else {
			out.findings = append(out.findings, Finding{kind, Warning, "⚠️ GPA below threshold"})
		}
		return out

	case constants.SlotGrade12Certificate:
		return presentOutcome(kind, "Grade 12 Certificate detected.", "✅ Academic qualification confirmed")

	case constants.SlotAcceptanceLetter:
		return presentOutcome(kind, "Enrollment proof detected.", "✅ Enrollment confirmed")

	case constants.SlotSchoolFeeStructure:
		return presentOutcome(kind, "School Fee Structure detected.", "✅ Financial need document present")

	case constants.SlotIDCard:
		return presentOutcome(kind, "ID document detected.", "✅ ID verified")

	case constants.SlotCharacterReference1, constants.SlotCharacterReference2:
		out := slotOutcome{summary: []string{kind.Title() + " detected."}}
		if containsAny(lower, contactKeywords) {
			out.findings = append(out.findings, Finding{kind, Positive, "✅ Reference includes contact info"})
			out.score = 1
			out.met = true
		} else {
			out.findings = append(out.findings, Finding{kind, Warning, "⚠️ Reference missing contact info"})
		}
		return out

	case constants.SlotStatutoryDeclaration:
		// Read but unscored.
		return slotOutcome{summary: []string{"Statutory Declaration detected."}}

	case constants.SlotExpressionOfInterest:
		out := slotOutcome{summary: []string{"Expression of Interest Letter detected."}}
		if containsAny(lower, motivationKeywords) {
			out.findings = append(out.findings, Finding{kind, Positive, "✅ Expression of interest contains motivation keywords"})
			out.score = 1
			out.met = true
		} else {
			out.findings = append(out.findings, Finding{kind, Warning, "⚠️ Expression of interest lacks clear motivation"})
		}
		return out
	}

	// Unreachable for the closed SlotKind set.
	return slotOutcome{summary: []string{fmt.Sprintf("%s detected.", kind.Title())}}
}

func presentOutcome(kind constants.SlotKind, summary, flag string) slotOutcome {
	return slotOutcome{
		summary:  []string{summary},
		findings: []Finding{{kind, Positive, flag}},
		score:    1,
		met:      true,
	}
}

func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

// formatGPA renders the value the way the legacy reports did: shortest
// decimal form, but whole numbers keep a trailing ".0".
func formatGPA(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
