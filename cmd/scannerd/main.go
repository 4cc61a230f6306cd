package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"

	"github.com/scholarfund/eligibility-scanner/internal/async"
	"github.com/scholarfund/eligibility-scanner/internal/common"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
	"github.com/scholarfund/eligibility-scanner/internal/export"
	"github.com/scholarfund/eligibility-scanner/internal/extract"
	"github.com/scholarfund/eligibility-scanner/internal/ocr"
	"github.com/scholarfund/eligibility-scanner/internal/progress"
	"github.com/scholarfund/eligibility-scanner/internal/repository"
	"github.com/scholarfund/eligibility-scanner/internal/scan"
	"github.com/scholarfund/eligibility-scanner/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("open database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close database", "error", cerr)
		}
	}()

	appsRepo := repository.NewApplicationRepository(db, logger)
	scansRepo := repository.NewScanRepository(db, logger)

	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.TesseractLang,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	extractor := extract.NewExtractor(engine, logger)
	scanner := eligibility.NewScanner(extractor, logger, eligibility.WithInterestLetter())

	store := progress.NewStore()
	svc := scan.NewService(appsRepo, scansRepo, scanner, store, logger)
	queue := async.NewQueue(svc, logger,
		async.WithWorkers(cfg.Queue.Workers),
		async.WithQueueSize(cfg.Queue.Size),
		async.WithScanTimeout(cfg.Queue.ScanTimeout),
	)
	exporter := export.NewService(scansRepo, logger)

	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.Uploads.MaxFileBytes) * 10, // whole multipart form, not one file
	})
	srv := server.New(appsRepo, scansRepo, svc, queue, store, exporter, cfg.Uploads, logger)
	srv.RegisterRoutes(app)

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := app.Listen(cfg.Server.Addr); err != nil {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}
