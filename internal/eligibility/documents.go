package eligibility

import "github.com/scholarfund/eligibility-scanner/constants"

// Documents holds one optional file per document slot. Slots are explicit
// fields rather than a string-keyed map so a missing attachment is a nil
// field, not a runtime lookup that can silently miss.
type Documents struct {
	Transcript           File
	Grade12Certificate   File
	AcceptanceLetter     File
	SchoolFeeStructure   File
	IDCard               File
	CharacterReference1  File
	CharacterReference2  File
	StatutoryDeclaration File
	ExpressionOfInterest File
}

type slotFile struct {
	kind constants.SlotKind
	file File
}

// slots returns the fixed-order document list for one scan. A nil file means
// the slot is missing; the slot is still listed so it is flagged rather than
// silently dropped.
func (d *Documents) slots(includeInterestLetter bool) []slotFile {
	out := []slotFile{
		{constants.SlotTranscript, d.Transcript},
		{constants.SlotGrade12Certificate, d.Grade12Certificate},
		{constants.SlotAcceptanceLetter, d.AcceptanceLetter},
		{constants.SlotSchoolFeeStructure, d.SchoolFeeStructure},
		{constants.SlotIDCard, d.IDCard},
		{constants.SlotCharacterReference1, d.CharacterReference1},
		{constants.SlotCharacterReference2, d.CharacterReference2},
		{constants.SlotStatutoryDeclaration, d.StatutoryDeclaration},
	}
	if includeInterestLetter {
		out = append(out, slotFile{constants.SlotExpressionOfInterest, d.ExpressionOfInterest})
	}
	return out
}

// Set assigns a file to the named slot. Unknown kinds are ignored.
func (d *Documents) Set(kind constants.SlotKind, f File) {
	switch kind {
	case constants.SlotTranscript:
		d.Transcript = f
	case constants.SlotGrade12Certificate:
		d.Grade12Certificate = f
	case constants.SlotAcceptanceLetter:
		d.AcceptanceLetter = f
	case constants.SlotSchoolFeeStructure:
		d.SchoolFeeStructure = f
	case constants.SlotIDCard:
		d.IDCard = f
	case constants.SlotCharacterReference1:
		d.CharacterReference1 = f
	case constants.SlotCharacterReference2:
		d.CharacterReference2 = f
	case constants.SlotStatutoryDeclaration:
		d.StatutoryDeclaration = f
	case constants.SlotExpressionOfInterest:
		d.ExpressionOfInterest = f
	}
}
