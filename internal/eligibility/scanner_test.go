package eligibility

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/extract"
)

// memFile is an in-memory scanner input. Text content with a .txt name goes
// through the extractor's permissive decode, so these tests exercise the
// real extraction path without tesseract.
type memFile struct {
	name string
	*bytes.Reader
}

func (m *memFile) Name() string { return m.name }

func txt(name, content string) File {
	return &memFile{name: name + ".txt", Reader: bytes.NewReader([]byte(content))}
}

// brokenFile fails every read.
type brokenFile struct{ name string }

func (b brokenFile) Name() string                 { return b.name }
func (b brokenFile) Read([]byte) (int, error)     { return 0, errors.New("disk read failed") }
func (b brokenFile) Seek(int64, int) (int64, error) { return 0, nil }

// recorderSink captures every progress event.
type recorderSink struct {
	events []progressEvent
}

type progressEvent struct {
	percent int
	message string
}

func (r *recorderSink) Update(_ string, percent int, message string) error {
	r.events = append(r.events, progressEvent{percent, message})
	return nil
}

// angrySink fails every update.
type angrySink struct{}

func (angrySink) Update(string, int, string) error { return errors.New("sink unavailable") }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestScanner(opts ...Option) *Scanner {
	ex := extract.NewExtractor(nil, quietLogger())
	return NewScanner(ex, quietLogger(), opts...)
}

func fullDocuments() *Documents {
	return &Documents{
		Transcript:           txt("transcript", "Cumulative GPA: 3.5"),
		Grade12Certificate:   txt("grade_12_certificate", "certificate of completion"),
		AcceptanceLetter:     txt("acceptance_letter", "we are pleased to offer enrollment"),
		SchoolFeeStructure:   txt("school_fee_structure", "tuition 4000 per semester"),
		IDCard:               txt("id_card", "national identity card"),
		CharacterReference1:  txt("character_reference_1", "please email me for details"),
		CharacterReference2:  txt("character_reference_2", "contact: +675 555 0100"),
		StatutoryDeclaration: txt("statedec", "I solemnly declare"),
	}
}

func TestScanAllDocumentsMissing(t *testing.T) {
	s := newTestScanner()
	rep := s.Scan(context.Background(), &Documents{}, "task-1", nil)

	assert.Equal(t, 0, rep.Score)
	assert.Equal(t, 0, rep.CriteriaMet)
	assert.Equal(t, 8, rep.TotalSlots)
	assert.Equal(t, 9, rep.MaxScore)

	require.Len(t, rep.Findings, 8)
	wantFlags := []string{
		"❌ Missing: Transcript",
		"❌ Missing: Grade 12 Certificate",
		"❌ Missing: Acceptance Letter",
		"❌ Missing: School Fee Structure",
		"❌ Missing: Id Card",
		"❌ Missing: Character Reference 1",
		"❌ Missing: Character Reference 2",
		"❌ Missing: Statedec",
	}
	for i, f := range rep.Findings {
		assert.Equal(t, wantFlags[i], f.Flag)
		assert.Equal(t, Missing, f.Level)
	}
}

func TestScanFullApplication(t *testing.T) {
	s := newTestScanner()
	rep := s.Scan(context.Background(), fullDocuments(), "task-2", nil)

	// transcript 2 + cert/acceptance/fees/id 4 + references 2; the statutory
	// declaration is read but contributes nothing.
	assert.Equal(t, 8, rep.Score)
	assert.Equal(t, 7, rep.CriteriaMet)
	assert.Equal(t, 8, rep.TotalSlots)
	assert.Equal(t, 9, rep.MaxScore)

	assert.Contains(t, rep.Summary, "Transcript found.")
	assert.Contains(t, rep.Summary, "GPA detected: 3.5")
	assert.Contains(t, rep.Summary, "Statutory Declaration detected.")

	var flags []string
	for _, f := range rep.Findings {
		flags = append(flags, f.Flag)
	}
	assert.Equal(t, []string{
		"✅ GPA meets requirement",
		"✅ Academic qualification confirmed",
		"✅ Enrollment confirmed",
		"✅ Financial need document present",
		"✅ ID verified",
		"✅ Reference includes contact info",
		"✅ Reference includes contact info",
	}, flags)
}

func TestScanRenderedReportShape(t *testing.T) {
	s := newTestScanner()
	rep := s.Scan(context.Background(), fullDocuments(), "task-3", nil)

	text := rep.Render()
	assert.Contains(t, text, "\n📊 Eligibility Score: 8/9")
	assert.Contains(t, text, "✅ Criteria Met: 7/8")
	assert.Contains(t, text, "📌 Flags:")
	// flags come after the flags header
	idx := strings.Index(text, "📌 Flags:")
	require.Greater(t, idx, 0)
	assert.Contains(t, text[idx:], "✅ GPA meets requirement")
}

func TestScanLowGPA(t *testing.T) {
	docs := fullDocuments()
	docs.Transcript = txt("transcript", "GPA: 2.5")

	s := newTestScanner()
	rep := s.Scan(context.Background(), docs, "task-4", nil)

	assert.Equal(t, 6, rep.Score)
	assert.Equal(t, 6, rep.CriteriaMet)
	assert.Contains(t, rep.Summary, "GPA detected: 2.5")

	var flags []string
	for _, f := range rep.Findings {
		flags = append(flags, f.Flag)
	}
	assert.Contains(t, flags, "⚠️ GPA below threshold")
}

func TestScanGPAAbsent(t *testing.T) {
	docs := fullDocuments()
	docs.Transcript = txt("transcript", "semester results attached")

	s := newTestScanner()
	rep := s.Scan(context.Background(), docs, "task-5", nil)

	var flags []string
	for _, f := range rep.Findings {
		flags = append(flags, f.Flag)
	}
	assert.Contains(t, flags, "⚠️ GPA not found in transcript")
	assert.Equal(t, 6, rep.Score)
}

func TestScanReferenceWithoutContactInfo(t *testing.T) {
	docs := fullDocuments()
	docs.CharacterReference1 = txt("character_reference_1", "a fine upstanding student")

	s := newTestScanner()
	rep := s.Scan(context.Background(), docs, "task-6", nil)

	assert.Equal(t, 7, rep.Score)
	assert.Equal(t, 6, rep.CriteriaMet)

	var flags []string
	for _, f := range rep.Findings {
		flags = append(flags, f.Flag)
	}
	assert.Contains(t, flags, "⚠️ Reference missing contact info")
}

func TestScanInterestLetterSlot(t *testing.T) {
	docs := fullDocuments()
	docs.ExpressionOfInterest = txt("expression_of_interest", "my motivation for applying")

	s := newTestScanner(WithInterestLetter())
	rep := s.Scan(context.Background(), docs, "task-7", nil)

	assert.Equal(t, 9, rep.TotalSlots)
	assert.Equal(t, 10, rep.MaxScore)
	assert.Equal(t, 9, rep.Score)
	assert.Equal(t, 8, rep.CriteriaMet)
	assert.Contains(t, rep.Summary, "Expression of Interest Letter detected.")

	// without the keywords it degrades to a warning
	docs.ExpressionOfInterest = txt("expression_of_interest", "I would like money")
	rep = s.Scan(context.Background(), docs, "task-7b", nil)
	var flags []string
	for _, f := range rep.Findings {
		flags = append(flags, f.Flag)
	}
	assert.Contains(t, flags, "⚠️ Expression of interest lacks clear motivation")
}

func TestScanProgressIsMonotonicAndCompletes(t *testing.T) {
	sink := &recorderSink{}
	s := newTestScanner()
	s.Scan(context.Background(), fullDocuments(), "task-8", sink)

	require.NotEmpty(t, sink.events)
	assert.LessOrEqual(t, sink.events[0].percent, 1)
	last := -1
	for _, e := range sink.events {
		assert.GreaterOrEqual(t, e.percent, last, "progress went backwards at %q", e.message)
		last = e.percent
	}
	final := sink.events[len(sink.events)-1]
	assert.Equal(t, 100, final.percent)
	assert.Equal(t, "Scan complete.", final.message)
}

func TestScanProgressWithMissingSlots(t *testing.T) {
	// missing slots skip their post-processing event but percentages still
	// never decrease and still end at 100
	sink := &recorderSink{}
	docs := &Documents{Transcript: txt("transcript", "GPA: 3.2")}
	s := newTestScanner()
	s.Scan(context.Background(), docs, "task-9", sink)

	last := -1
	for _, e := range sink.events {
		assert.GreaterOrEqual(t, e.percent, last)
		last = e.percent
	}
	assert.Equal(t, 100, last)
}

func TestScanFailingSinkDoesNotChangeReport(t *testing.T) {
	s := newTestScanner()
	clean := s.Scan(context.Background(), fullDocuments(), "task-10", NopSink{})
	angry := s.Scan(context.Background(), fullDocuments(), "task-10", angrySink{})

	assert.Equal(t, clean.Render(), angry.Render())
	assert.Equal(t, clean.Score, angry.Score)
	assert.Equal(t, clean.CriteriaMet, angry.CriteriaMet)
}

func TestScanUnreadableSlotIsIsolated(t *testing.T) {
	docs := fullDocuments()
	docs.Transcript = brokenFile{name: "transcript.pdf"}

	s := newTestScanner()
	rep := s.Scan(context.Background(), docs, "task-11", nil)

	assert.Contains(t, rep.Summary, "⚠️ Error reading transcript: disk read failed")
	// every other slot still scored normally
	assert.Equal(t, 6, rep.Score)
	assert.Equal(t, 6, rep.CriteriaMet)
	assert.Contains(t, rep.Summary, "Grade 12 Certificate detected.")
}

func TestScanStreamPositionRestored(t *testing.T) {
	f := txt("transcript", "GPA: 3.9").(*memFile)
	docs := &Documents{Transcript: f}

	s := newTestScanner()
	s.Scan(context.Background(), docs, "task-12", nil)

	// the caller can re-read the stream from the start afterwards
	raw, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "GPA: 3.9", string(raw))
}

func TestSlotTitles(t *testing.T) {
	assert.Equal(t, "Grade 12 Certificate", constants.SlotGrade12Certificate.Title())
	assert.Equal(t, "Id Card", constants.SlotIDCard.Title())
	assert.Equal(t, "Character Reference 2", constants.SlotCharacterReference2.Title())
}
