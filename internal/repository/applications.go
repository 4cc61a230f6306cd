package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/application"
	"github.com/scholarfund/eligibility-scanner/internal/common"
)

// ApplicationRepository stores applications and their uploaded documents.
type ApplicationRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewApplicationRepository(db *sql.DB, logger *slog.Logger) *ApplicationRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationRepository{db: db, logger: logger}
}

// Create inserts a new application from validated intake metadata.
func (r *ApplicationRepository) Create(ctx context.Context, m application.Metadata) (application.Record, error) {
	rec := application.Record{
		ID:          uuid.New(),
		FullName:    m.FullName,
		Email:       m.Email,
		Institution: m.Institution,
		Course:      m.Course,
		IntakeYear:  m.IntakeYear,
		SubmittedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO application (id, full_name, email, institution, course, intake_year, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.FullName, rec.Email, rec.Institution, rec.Course, rec.IntakeYear, rec.SubmittedAt)
	if err != nil {
		return application.Record{}, common.WrapError(err, "insert application")
	}
	r.logger.Info("application created", "application_id", rec.ID, "applicant", rec.FullName)
	return rec, nil
}

// Get loads one application.
func (r *ApplicationRepository) Get(ctx context.Context, id uuid.UUID) (application.Record, error) {
	var rec application.Record
	var rawID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, full_name, email, institution, course, intake_year, submitted_at
		 FROM application WHERE id = ?`, id.String()).
		Scan(&rawID, &rec.FullName, &rec.Email, &rec.Institution, &rec.Course, &rec.IntakeYear, &rec.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return application.Record{}, common.ErrNotFound
	}
	if err != nil {
		return application.Record{}, common.WrapError(err, "select application")
	}
	rec.ID, err = uuid.Parse(rawID)
	if err != nil {
		return application.Record{}, common.WrapError(err, "parse application id")
	}
	return rec, nil
}

// AttachDocument records a stored upload for one slot, replacing any earlier
// upload for the same slot.
func (r *ApplicationRepository) AttachDocument(ctx context.Context, appID uuid.UUID, slot constants.SlotKind, fileName, path string, size int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO application_document (application_id, slot, file_name, path, size_bytes, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (application_id, slot) DO UPDATE SET
		   file_name = excluded.file_name,
		   path = excluded.path,
		   size_bytes = excluded.size_bytes,
		   uploaded_at = excluded.uploaded_at`,
		appID.String(), string(slot), fileName, path, size, time.Now().UTC())
	if err != nil {
		return common.WrapError(err, "attach document")
	}
	r.logger.Info("document attached", "application_id", appID, "slot", string(slot), "file", fileName, "bytes", size)
	return nil
}

// DocumentPaths returns the stored path per slot for one application. Slots
// with no upload are simply absent from the map.
func (r *ApplicationRepository) DocumentPaths(ctx context.Context, appID uuid.UUID) (map[constants.SlotKind]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT slot, path FROM application_document WHERE application_id = ?`, appID.String())
	if err != nil {
		return nil, common.WrapError(err, "select documents")
	}
	defer func() {
		_ = rows.Close()
	}()

	paths := make(map[constants.SlotKind]string)
	for rows.Next() {
		var slot, path string
		if err := rows.Scan(&slot, &path); err != nil {
			return nil, common.WrapError(err, "scan document row")
		}
		paths[constants.SlotKind(slot)] = path
	}
	return paths, rows.Err()
}
