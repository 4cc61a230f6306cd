package eligibility

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/scholarfund/eligibility-scanner/internal/extract"
)

// TextExtractor is the extraction stage the scanner depends on; satisfied by
// *extract.Extractor and stubbed in tests.
type TextExtractor interface {
	Extract(ctx context.Context, raw []byte, nameHint string) (extract.Result, error)
}

// Scanner walks an application's documents in fixed slot order and
// accumulates the eligibility report. One scan is strictly sequential; a
// caller wanting parallelism runs independent scans on independent
// goroutines — the scanner holds no mutable state across invocations.
type Scanner struct {
	extractor             TextExtractor
	logger                *slog.Logger
	includeInterestLetter bool
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterestLetter adds the optional expression-of-interest slot to the
// fixed slot list.
func WithInterestLetter() Option {
	return func(s *Scanner) { s.includeInterestLetter = true }
}

func NewScanner(extractor TextExtractor, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{extractor: extractor, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan produces the eligibility report for one application. It never
// returns an error: a document that cannot be read becomes a warning line, a
// missing document becomes a missing flag, and the report always exists.
// Progress is emitted through sink with monotonically non-decreasing
// percentages ending at exactly 100; sink failures are swallowed.
func (s *Scanner) Scan(ctx context.Context, docs *Documents, taskID string, sink Sink) *ScanReport {
	if sink == nil {
		sink = NopSink{}
	}

	slots := docs.slots(s.includeInterestLetter)
	total := len(slots)

	rep := &ScanReport{
		TotalSlots: total,
		// transcript is worth 2, every other slot in the list 1
		MaxScore: 2 + (total - 1),
	}

	lastPct := 0
	emit := func(pct int, msg string) {
		if pct < lastPct {
			pct = lastPct
		}
		lastPct = pct
		if err := sink.Update(taskID, pct, msg); err != nil {
			s.logger.Debug("progress sink update failed", "task_id", taskID, "percent", pct, "error", err)
		}
	}

	emit(1, "Starting document scan...")

	for i, sf := range slots {
		processed := i + 1
		emit(i*90/total, fmt.Sprintf("Processing %s...", sf.kind.Title()))

		if sf.file == nil {
			rep.Findings = append(rep.Findings, missingFinding(sf.kind))
			continue
		}

		text, err := s.readAndExtract(ctx, sf.file)
		if err != nil {
			rep.Summary = append(rep.Summary, fmt.Sprintf("⚠️ Error reading %s: %s", sf.kind, err.Error()))
			s.logger.Warn("document unreadable", "task_id", taskID, "slot", string(sf.kind), "error", err)
			continue
		}

		out := evaluate(sf.kind, text)
		rep.Summary = append(rep.Summary, out.summary...)
		rep.Findings = append(rep.Findings, out.findings...)
		rep.Score += out.score
		if out.met {
			rep.CriteriaMet++
		}

		emit(processed*90/total, fmt.Sprintf("Processed %d/%d documents", processed, total))
	}

	emit(95, "Finalizing results...")
	emit(100, "Scan complete.")

	s.logger.Info("scan complete",
		"task_id", taskID,
		"score", rep.Score,
		"max_score", rep.MaxScore,
		"criteria_met", rep.CriteriaMet,
		"total_slots", rep.TotalSlots,
	)
	return rep
}

// readAndExtract buffers the document and runs text extraction. The stream's
// read position is restored so the caller's handle stays reusable.
func (s *Scanner) readAndExtract(ctx context.Context, f File) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	res, err := s.extractor.Extract(ctx, raw, f.Name())
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
