package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/common"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
)

// ScanRow is one scan job as stored.
type ScanRow struct {
	ID            uuid.UUID
	ApplicationID uuid.UUID
	Status        constants.ScanStatus
	Report        string
	Score         int
	CriteriaMet   int
	MaxScore      int
	TotalSlots    int
	Error         string
	CreatedAt     time.Time
	FinishedAt    *time.Time
}

// ExportRow joins a completed scan with its application for the officer
// export.
type ExportRow struct {
	FullName    string
	Email       string
	Institution string
	Course      string
	Score       int
	MaxScore    int
	CriteriaMet int
	TotalSlots  int
	FinishedAt  time.Time
}

// ScanRepository stores scan jobs and their reports.
type ScanRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewScanRepository(db *sql.DB, logger *slog.Logger) *ScanRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScanRepository{db: db, logger: logger}
}

// Create inserts a QUEUED scan job.
func (r *ScanRepository) Create(ctx context.Context, scanID, appID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_job (id, application_id, status, created_at) VALUES (?, ?, ?, ?)`,
		scanID.String(), appID.String(), string(constants.ScanStatusQueued), time.Now().UTC())
	if err != nil {
		return common.WrapError(err, "insert scan job")
	}
	r.logger.Info("scan queued", "scan_id", scanID, "application_id", appID)
	return nil
}

// MarkRunning advances a job to RUNNING.
func (r *ScanRepository) MarkRunning(ctx context.Context, scanID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_job SET status = ? WHERE id = ?`,
		string(constants.ScanStatusRunning), scanID.String())
	return common.WrapError(err, "mark scan running")
}

// Complete stores the finished report.
func (r *ScanRepository) Complete(ctx context.Context, scanID uuid.UUID, rep *eligibility.ScanReport, rendered string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_job SET status = ?, report = ?, score = ?, criteria_met = ?, max_score = ?, total_slots = ?, finished_at = ?
		 WHERE id = ?`,
		string(constants.ScanStatusCompleted), rendered,
		rep.Score, rep.CriteriaMet, rep.MaxScore, rep.TotalSlots,
		time.Now().UTC(), scanID.String())
	return common.WrapError(err, "complete scan")
}

// Fail marks a job FAILED with a reason. Per-document problems never land
// here; they live inside the report. This is for failures before a report
// existed (application gone, unreadable storage).
func (r *ScanRepository) Fail(ctx context.Context, scanID uuid.UUID, reason string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_job SET status = ?, error = ?, finished_at = ? WHERE id = ?`,
		string(constants.ScanStatusFailed), reason, time.Now().UTC(), scanID.String())
	return common.WrapError(err, "fail scan")
}

// Get loads one scan job.
func (r *ScanRepository) Get(ctx context.Context, scanID uuid.UUID) (ScanRow, error) {
	var row ScanRow
	var rawID, rawAppID, rawStatus string
	var finished sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT id, application_id, status, report, score, criteria_met, max_score, total_slots, error, created_at, finished_at
		 FROM scan_job WHERE id = ?`, scanID.String()).
		Scan(&rawID, &rawAppID, &rawStatus, &row.Report,
			&row.Score, &row.CriteriaMet, &row.MaxScore, &row.TotalSlots,
			&row.Error, &row.CreatedAt, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return ScanRow{}, common.ErrNotFound
	}
	if err != nil {
		return ScanRow{}, common.WrapError(err, "select scan job")
	}
	if row.ID, err = uuid.Parse(rawID); err != nil {
		return ScanRow{}, common.WrapError(err, "parse scan id")
	}
	if row.ApplicationID, err = uuid.Parse(rawAppID); err != nil {
		return ScanRow{}, common.WrapError(err, "parse application id")
	}
	row.Status = constants.ScanStatus(rawStatus)
	if finished.Valid {
		t := finished.Time
		row.FinishedAt = &t
	}
	return row, nil
}

// ListCompleted returns all completed scans joined with their applications,
// newest first.
func (r *ScanRepository) ListCompleted(ctx context.Context) ([]ExportRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.full_name, a.email, a.institution, a.course,
		        s.score, s.max_score, s.criteria_met, s.total_slots, s.finished_at
		 FROM scan_job s
		 JOIN application a ON a.id = s.application_id
		 WHERE s.status = ?
		 ORDER BY s.finished_at DESC`, string(constants.ScanStatusCompleted))
	if err != nil {
		return nil, common.WrapError(err, "select completed scans")
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []ExportRow
	for rows.Next() {
		var e ExportRow
		if err := rows.Scan(&e.FullName, &e.Email, &e.Institution, &e.Course,
			&e.Score, &e.MaxScore, &e.CriteriaMet, &e.TotalSlots, &e.FinishedAt); err != nil {
			return nil, common.WrapError(err, "scan export row")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
