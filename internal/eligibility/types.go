// Package eligibility scores an applicant's uploaded documents against the
// scholarship eligibility rules and produces the narrative scan report.
package eligibility

import (
	"fmt"
	"io"
	"strings"

	"github.com/scholarfund/eligibility-scanner/constants"
)

// FindingLevel tags a finding as positive, a quality warning, or a missing
// document.
type FindingLevel int

const (
	Positive FindingLevel = iota
	Warning
	Missing
)

// Finding is one human-readable eligibility observation tied to a slot.
// Flag carries the exact display string, marker glyph included; downstream
// views render it verbatim.
type Finding struct {
	Slot  constants.SlotKind
	Level FindingLevel
	Flag  string
}

// ScanReport is the aggregate result of one scan. It is fully built in one
// pass and immutable once returned.
type ScanReport struct {
	Summary     []string
	Findings    []Finding
	Score       int
	CriteriaMet int
	MaxScore    int
	TotalSlots  int
}

// Render serializes the report to its legacy narrative form. The literals
// here are load-bearing: stored reports and the review UI compare this text
// byte for byte.
func (r *ScanReport) Render() string {
	lines := make([]string, 0, len(r.Summary)+len(r.Findings)+3)
	lines = append(lines, r.Summary...)
	lines = append(lines, fmt.Sprintf("\n📊 Eligibility Score: %d/%d", r.Score, r.MaxScore))
	lines = append(lines, fmt.Sprintf("✅ Criteria Met: %d/%d", r.CriteriaMet, r.TotalSlots))
	lines = append(lines, "📌 Flags:")
	for _, f := range r.Findings {
		lines = append(lines, f.Flag)
	}
	return strings.Join(lines, "\n")
}

// File is the slice of an uploaded document the scanner needs: a name used
// only for extension sniffing, and a seekable byte stream. The scanner reads
// the stream fully and seeks it back to the start so the caller can reuse
// it.
type File interface {
	Name() string
	io.ReadSeeker
}

// Sink receives progress events during a scan. It is fire-and-forget: an
// error from the sink never fails the scan.
type Sink interface {
	Update(taskID string, percent int, message string) error
}

// NopSink discards all progress events.
type NopSink struct{}

func (NopSink) Update(string, int, string) error { return nil }
