// Package fields holds small pattern-matching utilities that pull structured
// facts out of extracted document text.
package fields

import (
	"regexp"
	"strconv"
)

// Label patterns are tried in order; the first match wins, which keeps the
// result deterministic when several could apply.
var gpaPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bGPA\s*[:=]?\s*([0-4]\.\d{1,2})\b`),
	regexp.MustCompile(`(?i)\bCUMULATIVE\s+GPA\s*[:=]?\s*([0-4]\.\d{1,2})\b`),
	regexp.MustCompile(`(?i)\bCGPA\s*[:=]?\s*([0-4]\.\d{1,2})\b`),
}

// Loose fallback: any 0.00-4.99 value within 20 characters of the word GPA.
var gpaLoose = regexp.MustCompile(`(?i)\bGPA\b(.{0,20})([0-4]\.\d{1,2})`)

// ExtractGPA tries to find a grade-point average in free text. Supports
// shapes like "GPA: 3.45", "GPA 3.2", and "CUMULATIVE GPA = 2.98". Returns
// the value and true on success; matched values are always in [0.00, 4.99].
func ExtractGPA(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	for _, re := range gpaPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v, true
			}
		}
	}
	if m := gpaLoose.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[2], 64); err == nil {
			return v, true
		}
	}
	return 0, false
}
