// Package scan coordinates one scan job end to end: load the application's
// stored documents, run the eligibility scanner, persist the outcome.
package scan

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/scholarfund/eligibility-scanner/internal/application"
	"github.com/scholarfund/eligibility-scanner/internal/async"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
	"github.com/scholarfund/eligibility-scanner/internal/progress"
	"github.com/scholarfund/eligibility-scanner/internal/repository"
)

type Service struct {
	apps     *repository.ApplicationRepository
	scans    *repository.ScanRepository
	scanner  *eligibility.Scanner
	progress *progress.Store
	logger   *slog.Logger
}

func NewService(
	apps *repository.ApplicationRepository,
	scans *repository.ScanRepository,
	scanner *eligibility.Scanner,
	store *progress.Store,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{apps: apps, scans: scans, scanner: scanner, progress: store, logger: logger}
}

// Submit records a new scan job for the application and returns its id. The
// id doubles as the progress task id.
func (s *Service) Submit(ctx context.Context, appID uuid.UUID) (uuid.UUID, error) {
	if _, err := s.apps.Get(ctx, appID); err != nil {
		return uuid.Nil, err
	}
	scanID := uuid.New()
	if err := s.scans.Create(ctx, scanID, appID); err != nil {
		return uuid.Nil, err
	}
	return scanID, nil
}

// ProcessScan implements async.Processor. Failures here are job-level
// (storage problems); individual unreadable documents are already absorbed
// into the report by the scanner.
func (s *Service) ProcessScan(ctx context.Context, job async.Job) error {
	if err := s.scans.MarkRunning(ctx, job.ScanID); err != nil {
		return err
	}

	paths, err := s.apps.DocumentPaths(ctx, job.ApplicationID)
	if err != nil {
		_ = s.scans.Fail(ctx, job.ScanID, err.Error())
		return err
	}
	docs, cleanup, err := application.Open(paths)
	if err != nil {
		_ = s.scans.Fail(ctx, job.ScanID, err.Error())
		return err
	}
	defer cleanup()

	taskID := job.ScanID.String()
	rep := s.scanner.Scan(ctx, docs, taskID, s.progress)

	if err := s.scans.Complete(ctx, job.ScanID, rep, rep.Render()); err != nil {
		return err
	}
	s.logger.Info("scan.persisted",
		"scan_id", job.ScanID,
		"application_id", job.ApplicationID,
		"score", rep.Score,
		"criteria_met", rep.CriteriaMet,
	)
	return nil
}
