// Package extract turns uploaded document bytes into best-effort plain text.
//
// Strategy is picked from the file name's extension: PDFs get per-page
// native text with an OCR fallback for scanned pages, raster images are
// preprocessed and OCR'd whole, and anything else gets a permissive byte
// decode. Failures at the page level are swallowed; only a document that
// cannot be opened at all surfaces as an error, which the scan orchestrator
// records as a warning line and moves past.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/go-fitz"

	"github.com/scholarfund/eligibility-scanner/constants"
	"github.com/scholarfund/eligibility-scanner/internal/imgprep"
)

// Rasterization resolution for scanned PDF pages. 200dpi is a good balance
// between OCR accuracy and speed.
const pdfRasterDPI = 200

// Result summarizes one document's text extraction.
type Result struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TEXT
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "byte-decode"
	Duration   time.Duration
	Warnings   []string
}

// OCREngine is the slice of the OCR engine the extractor needs.
type OCREngine interface {
	ImageText(ctx context.Context, img image.Image) (string, error)
}

// Extractor produces plain text from raw document bytes.
type Extractor struct {
	ocr    OCREngine
	logger *slog.Logger
}

func NewExtractor(ocr OCREngine, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{ocr: ocr, logger: logger}
}

// Extract picks a strategy based on the file name hint. The raw buffer is
// never mutated.
func (e *Extractor) Extract(ctx context.Context, raw []byte, nameHint string) (Result, error) {
	start := time.Now()
	ext := filepath.Ext(nameHint)
	e.logger.Debug("starting text extraction", "name", nameHint, "bytes", len(raw), "ext", ext)

	var res Result
	var err error
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, raw)
	case constants.IMAGE:
		res, err = e.extractImage(ctx, raw)
	default:
		res = e.decodeText(raw)
	}
	res.Duration = time.Since(start)
	return res, err
}

// extractPDF walks the document page by page. Pages with native text
// contribute it directly; pages that yield only whitespace are treated as
// scans, rasterized, and OCR'd. A page whose OCR fails contributes nothing.
func (e *Extractor) extractPDF(ctx context.Context, raw []byte) (Result, error) {
	doc, err := fitz.NewFromMemory(raw)
	if err != nil {
		return Result{SourceType: constants.PDF}, fmt.Errorf("open pdf: %w", err)
	}
	defer func() {
		_ = doc.Close()
	}()

	res := Result{
		SourceType: constants.PDF,
		Method:     "pdf-text",
		Pages:      doc.NumPage(),
	}

	var out []string
	for n := 0; n < doc.NumPage(); n++ {
		pageText, err := doc.Text(n)
		if err == nil {
			if t := strings.TrimSpace(pageText); t != "" {
				out = append(out, t)
				continue
			}
		} else {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: native text: %v", n+1, err))
		}

		// OCR fallback for a scanned page.
		img, err := doc.ImageDPI(n, pdfRasterDPI)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: rasterize: %v", n+1, err))
			continue
		}
		txt, err := e.ocr.ImageText(ctx, imgprep.Preprocess(img))
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("page %d: ocr: %v", n+1, err))
			continue
		}
		if t := strings.TrimSpace(txt); t != "" {
			out = append(out, t)
			res.Method = "pdf-ocr"
		}
	}

	res.Text = strings.Join(out, "\n")
	return res, nil
}

func (e *Extractor) extractImage(ctx context.Context, raw []byte) (Result, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Result{SourceType: constants.IMAGE}, fmt.Errorf("decode image: %w", err)
	}
	txt, err := e.ocr.ImageText(ctx, imgprep.Preprocess(img))
	if err != nil {
		return Result{SourceType: constants.IMAGE}, err
	}
	return Result{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
	}, nil
}

// decodeText is the fallback for unrecognized kinds: decode what we can,
// drop undecodable bytes, never fail.
func (e *Extractor) decodeText(raw []byte) Result {
	return Result{
		Text:       strings.ToValidUTF8(string(raw), ""),
		Pages:      1,
		SourceType: constants.TEXT,
		Method:     "byte-decode",
	}
}
