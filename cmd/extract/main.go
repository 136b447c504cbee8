// Command extract runs the document pipeline against local files and
// prints the extracted patient fields as JSON, one object per file. Useful
// for smoke-testing OCR hosts without standing up the API.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amara-nwosu/patient-intake/internal/common"
	"github.com/amara-nwosu/patient-intake/internal/docext"
	"github.com/amara-nwosu/patient-intake/internal/ocr"
)

type fileResult struct {
	File   string                `json:"file"`
	Fields *docext.PatientFields `json:"fields,omitempty"`
	Error  string                `json:"error,omitempty"`
	Kind   string                `json:"kind,omitempty"`
}

func main() {
	var (
		ocrEnabled = flag.Bool("ocr", true, "fall back to OCR for scanned PDFs")
		strict     = flag.Bool("strict", false, "reject extensions outside the pdf/docx/text allow-list")
		workers    = flag.Int("workers", 4, "concurrent files")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: extract [flags] <file> [file...]")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := common.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	engine := ocr.NewTesseract(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		Workers:     cfg.OCR.Workers,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	acquirer := docext.NewAcquirer(docext.AcquirerConfig{
		OCR:         engine,
		StrictTypes: *strict,
	}, logger)
	pipeline := docext.NewProcessor(acquirer, docext.NewExtractor(logger), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	results := make([]fileResult, flag.NArg())
	var failed bool
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*workers)
	for i, path := range flag.Args() {
		i, path := i, path
		g.Go(func() error {
			results[i] = processFile(gctx, pipeline, path, *ocrEnabled)
			if results[i].Error != "" {
				mu.Lock()
				failed = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, res := range results {
		_ = enc.Encode(res)
	}
	if failed {
		os.Exit(1)
	}
}

func processFile(ctx context.Context, pipeline *docext.Processor, path string, ocrEnabled bool) fileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileResult{File: path, Error: err.Error()}
	}

	fields, err := pipeline.Process(ctx, docext.RawDocument{
		Data:       data,
		Filename:   filepath.Base(path),
		OCREnabled: ocrEnabled,
	})
	if err != nil {
		return fileResult{File: path, Error: err.Error(), Kind: string(docext.KindOf(err))}
	}
	return fileResult{File: path, Fields: &fields}
}
