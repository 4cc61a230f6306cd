// runscan scans a directory of conventionally named application documents
// (transcript.pdf, id_card.png, ...) and prints the eligibility report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/scholarfund/eligibility-scanner/internal/application"
	"github.com/scholarfund/eligibility-scanner/internal/common"
	"github.com/scholarfund/eligibility-scanner/internal/eligibility"
	"github.com/scholarfund/eligibility-scanner/internal/extract"
	"github.com/scholarfund/eligibility-scanner/internal/ocr"
)

// stderrSink prints progress events as they arrive.
type stderrSink struct{}

func (stderrSink) Update(_ string, percent int, message string) error {
	fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, message)
	return nil
}

func main() {
	interestLetter := flag.Bool("interest-letter", false, "evaluate the optional expression-of-interest slot")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall scan deadline")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: runscan [flags] <documents-dir>")
		os.Exit(2)
	}
	dir := flag.Arg(0)

	cfg := common.LoadConfig()

	docs, cleanup, err := application.OpenDir(dir)
	if err != nil {
		logger.Error("open documents", "dir", dir, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	engine := ocr.NewEngine(ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Language:    cfg.OCR.TesseractLang,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	extractor := extract.NewExtractor(engine, logger)

	opts := []eligibility.Option{}
	if *interestLetter {
		opts = append(opts, eligibility.WithInterestLetter())
	}
	scanner := eligibility.NewScanner(extractor, logger, opts...)

	var sink eligibility.Sink = stderrSink{}
	if *quiet {
		sink = eligibility.NopSink{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rep := scanner.Scan(ctx, docs, uuid.NewString(), sink)
	fmt.Println(rep.Render())
}
