// Package server exposes the HTTP surface: application intake, scan
// submission, progress polling, report retrieval, and the officer export.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/application"
	"github.com/scholarfund/eligibility-scanner/internal/async"
	"github.com/scholarfund/eligibility-scanner/internal/common"
	"github.com/scholarfund/eligibility-scanner/internal/export"
	"github.com/scholarfund/eligibility-scanner/internal/progress"
	"github.com/scholarfund/eligibility-scanner/internal/repository"
	"github.com/scholarfund/eligibility-scanner/internal/scan"
)

type Server struct {
	apps     *repository.ApplicationRepository
	scans    *repository.ScanRepository
	svc      *scan.Service
	queue    *async.Queue
	progress *progress.Store
	export   *export.Service
	uploads  common.UploadConfig
	logger   *slog.Logger
}

func New(
	apps *repository.ApplicationRepository,
	scans *repository.ScanRepository,
	svc *scan.Service,
	queue *async.Queue,
	store *progress.Store,
	exporter *export.Service,
	uploads common.UploadConfig,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		apps:     apps,
		scans:    scans,
		svc:      svc,
		queue:    queue,
		progress: store,
		export:   exporter,
		uploads:  uploads,
		logger:   logger,
	}
}

func (s *Server) RegisterRoutes(app *fiber.App) {
	app.Post("/applications", s.CreateApplication)
	app.Post("/applications/:id/scans", s.StartScan)
	app.Get("/scans/:id/progress", s.ScanProgress)
	app.Get("/scans/:id", s.GetScan)
	app.Get("/exports/scans.xlsx", s.ExportScans)
}

// CreateApplication accepts a multipart form: a "metadata" JSON field plus
// one optional file per document slot, keyed by slot name.
func (s *Server) CreateApplication(c *fiber.Ctx) error {
	ctx := c.Context()

	meta, err := application.ParseMetadata([]byte(c.FormValue("metadata")))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	rec, err := s.apps.Create(ctx, meta)
	if err != nil {
		s.logger.Error("create application failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "create application failed")
	}

	slotKinds := append(append([]constants.SlotKind{}, constants.SlotOrder...), constants.SlotExpressionOfInterest)
	attached := make([]string, 0, len(slotKinds))
	for _, slot := range slotKinds {
		fh, err := c.FormFile(string(slot))
		if err != nil {
			continue // slot not uploaded
		}
		if err := application.ValidateUpload(slot, fh.Filename, fh.Size, s.uploads.MaxFileBytes); err != nil {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}

		dir := filepath.Join(s.uploads.Dir, rec.ID.String())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.logger.Error("create upload dir failed", "error", err)
			return fail(c, fiber.StatusInternalServerError, "store upload failed")
		}
		dst := filepath.Join(dir, string(slot)+filepath.Ext(fh.Filename))
		if err := c.SaveFile(fh, dst); err != nil {
			s.logger.Error("save upload failed", "slot", string(slot), "error", err)
			return fail(c, fiber.StatusInternalServerError, "store upload failed")
		}
		if err := s.apps.AttachDocument(ctx, rec.ID, slot, fh.Filename, dst, fh.Size); err != nil {
			s.logger.Error("attach document failed", "slot", string(slot), "error", err)
			return fail(c, fiber.StatusInternalServerError, "store upload failed")
		}
		attached = append(attached, string(slot))
	}

	return created(c, fiber.Map{
		"id":        rec.ID.String(),
		"documents": attached,
	})
}

// StartScan queues a background eligibility scan and returns the task id the
// client polls for progress.
func (s *Server) StartScan(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "application id must be a UUID")
	}

	scanID, err := s.svc.Submit(c.Context(), appID)
	if errors.Is(err, common.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "application not found")
	}
	if err != nil {
		s.logger.Error("submit scan failed", "application_id", appID, "error", err)
		return fail(c, fiber.StatusInternalServerError, "submit scan failed")
	}

	job := async.Job{ScanID: scanID, ApplicationID: appID, SubmittedAt: time.Now().UTC()}
	if err := s.queue.Enqueue(c.Context(), job); err != nil {
		if errors.Is(err, common.ErrQueueFull) {
			return fail(c, fiber.StatusServiceUnavailable, "scan queue full, retry later")
		}
		s.logger.Error("enqueue scan failed", "scan_id", scanID, "error", err)
		return fail(c, fiber.StatusInternalServerError, "enqueue scan failed")
	}

	return created(c, fiber.Map{
		"task_id": scanID.String(),
		"status":  string(constants.ScanStatusQueued),
	})
}

// ScanProgress reports the last progress event for a task. Unknown or
// expired tasks read as 0% "Pending".
func (s *Server) ScanProgress(c *fiber.Ctx) error {
	taskID := c.Params("id")
	if _, err := uuid.Parse(taskID); err != nil {
		return fail(c, fiber.StatusBadRequest, "task id must be a UUID")
	}
	st := s.progress.Get(taskID)
	return ok(c, fiber.Map{
		"task_id": taskID,
		"percent": st.Percent,
		"message": st.Message,
	})
}

// GetScan returns a scan job, including the narrative report once the scan
// completed.
func (s *Server) GetScan(c *fiber.Ctx) error {
	scanID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "scan id must be a UUID")
	}

	row, err := s.scans.Get(c.Context(), scanID)
	if errors.Is(err, common.ErrNotFound) {
		return fail(c, fiber.StatusNotFound, "scan not found")
	}
	if err != nil {
		s.logger.Error("get scan failed", "scan_id", scanID, "error", err)
		return fail(c, fiber.StatusInternalServerError, "get scan failed")
	}

	data := fiber.Map{
		"id":             row.ID.String(),
		"application_id": row.ApplicationID.String(),
		"status":         string(row.Status),
		"created_at":     row.CreatedAt.Format(time.RFC3339),
	}
	if row.Status == constants.ScanStatusCompleted {
		data["report"] = row.Report
		data["score"] = row.Score
		data["max_score"] = row.MaxScore
		data["criteria_met"] = row.CriteriaMet
		data["total_slots"] = row.TotalSlots
	}
	if row.Status == constants.ScanStatusFailed {
		data["error"] = row.Error
	}
	if row.FinishedAt != nil {
		data["finished_at"] = row.FinishedAt.Format(time.RFC3339)
	}
	return ok(c, data)
}

// ExportScans streams the officer XLSX export.
func (s *Server) ExportScans(c *fiber.Ctx) error {
	buf, err := s.export.ExportScansXLSX(c.Context())
	if err != nil {
		s.logger.Error("export failed", "error", err)
		return fail(c, fiber.StatusInternalServerError, "export failed")
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "eligibility-scans-"+time.Now().UTC().Format("20060102")+".xlsx"))
	return c.Send(buf)
}
