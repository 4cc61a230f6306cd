package constants

import "strings"

// SlotKind identifies one named document requirement on a scholarship
// application. The set is closed: every kind is bound to its eligibility
// rule at compile time, so an unrecognized label cannot fall through
// silently.
type SlotKind string

const (
	SlotTranscript           SlotKind = "transcript"
	SlotGrade12Certificate   SlotKind = "grade_12_certificate"
	SlotAcceptanceLetter     SlotKind = "acceptance_letter"
	SlotSchoolFeeStructure   SlotKind = "school_fee_structure"
	SlotIDCard               SlotKind = "id_card"
	SlotCharacterReference1  SlotKind = "character_reference_1"
	SlotCharacterReference2  SlotKind = "character_reference_2"
	SlotStatutoryDeclaration SlotKind = "statedec"
	SlotExpressionOfInterest SlotKind = "expression_of_interest"
)

// SlotOrder is the fixed processing order for a scan. The expression of
// interest slot is appended only when the scanner is configured to include
// it.
var SlotOrder = []SlotKind{
	SlotTranscript,
	SlotGrade12Certificate,
	SlotAcceptanceLetter,
	SlotSchoolFeeStructure,
	SlotIDCard,
	SlotCharacterReference1,
	SlotCharacterReference2,
	SlotStatutoryDeclaration,
}

// IsReference reports whether the slot is one of the character references.
func (k SlotKind) IsReference() bool {
	return k == SlotCharacterReference1 || k == SlotCharacterReference2
}

// Title renders the slot name for display: underscores become spaces and
// each word is capitalized ("grade_12_certificate" -> "Grade 12
// Certificate"). The legacy report format depends on this exact shape.
func (k SlotKind) Title() string {
	words := strings.Split(strings.ReplaceAll(string(k), "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
