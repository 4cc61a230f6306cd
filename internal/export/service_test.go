package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/scholarfund/eligibility-scanner/internal/application"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
	"github.com/scholarfund/eligibility-scanner/internal/repository"
)

func testService(t *testing.T) (*Service, *repository.ApplicationRepository, *repository.ScanRepository) {
	t.Helper()
	db, err := repository.Open(context.Background(), filepath.Join(t.TempDir(), "scanner.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	apps := repository.NewApplicationRepository(db, logger)
	scans := repository.NewScanRepository(db, logger)
	return NewService(scans, logger), apps, scans
}

func seedCompletedScan(t *testing.T, apps *repository.ApplicationRepository, scans *repository.ScanRepository, name string, score int) {
	t.Helper()
	ctx := context.Background()
	rec, err := apps.Create(ctx, application.Metadata{
		FullName:    name,
		Email:       "applicant@example.edu",
		Institution: "University of Papua New Guinea",
		Course:      "BSc Computer Science",
		IntakeYear:  2026,
	})
	require.NoError(t, err)

	scanID := uuid.New()
	require.NoError(t, scans.Create(ctx, scanID, rec.ID))
	rep := &eligibility.ScanReport{Score: score, CriteriaMet: score - 1, MaxScore: 9, TotalSlots: 8}
	require.NoError(t, scans.Complete(ctx, scanID, rep, rep.Render()))
}

func TestExportScansXLSX(t *testing.T) {
	svc, apps, scans := testService(t)
	seedCompletedScan(t, apps, scans, "Maria Kaupa", 8)

	out, err := svc.ExportScansXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	get := func(cell string) string {
		v, err := f.GetCellValue("Scans", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Applicant", get("A1"))
	assert.Equal(t, "Eligibility Score", get("E1"))
	assert.Equal(t, "Scanned At", get("I1"))

	assert.Equal(t, "Maria Kaupa", get("A2"))
	assert.Equal(t, "applicant@example.edu", get("B2"))
	assert.Equal(t, "8/9", get("E2"))
	assert.Equal(t, "7/8", get("G2"))
	assert.NotEmpty(t, get("I2"))
}

func TestExportScansXLSXEmpty(t *testing.T) {
	svc, _, _ := testService(t)

	out, err := svc.ExportScansXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	v, err := f.GetCellValue("Scans", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Applicant", v)

	v, err = f.GetCellValue("Scans", "A2")
	require.NoError(t, err)
	assert.Empty(t, v)
}
