// Package export produces XLSX workbooks of completed eligibility scans for
// review officers.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/scholarfund/eligibility-scanner/internal/repository"
)

// Service is a small façade over the scan repository that renders export
// workbooks.
type Service struct {
	scans  *repository.ScanRepository
	logger *slog.Logger
}

func NewService(scans *repository.ScanRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{scans: scans, logger: logger}
}

// ExportScansXLSX returns an XLSX workbook (as bytes) listing every
// completed scan, newest first.
func (s *Service) ExportScansXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	rows, err := s.scans.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Scans"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Applicant",
		"Email",
		"Institution",
		"Course",
		"Eligibility Score",
		"Max Score",
		"Criteria Met",
		"Total Documents",
		"Scanned At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.FullName)
		write(2, r.Email)
		write(3, r.Institution)
		write(4, r.Course)
		write(5, fmt.Sprintf("%d/%d", r.Score, r.MaxScore))
		write(6, r.MaxScore)
		write(7, fmt.Sprintf("%d/%d", r.CriteriaMet, r.TotalSlots))
		write(8, r.TotalSlots)
		write(9, r.FinishedAt.Format("2006-01-02 15:04"))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // applicant
	_ = f.SetColWidth(sheet, "B", "B", 32) // email
	_ = f.SetColWidth(sheet, "C", "D", 24) // institution, course
	_ = f.SetColWidth(sheet, "E", "H", 16) // score columns
	_ = f.SetColWidth(sheet, "I", "I", 18) // timestamp

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
