// Package ocr recognizes text in scanned PDFs by rasterizing pages with
// poppler's pdftoppm and running tesseract over each page image.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	DPI         int    // rasterization DPI for scanned PDFs, default 300
	MaxPages    int    // 0 = no limit
	Workers     int    // concurrent page recognitions, default 4
	TessdataDir string
}

// Tesseract is the exec-backed OCR engine. Pages are independent, so they
// are recognized concurrently; the final text reassembles them in page
// order. Recognition is single-pass: any page failure aborts the whole
// run.
type Tesseract struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewTesseract(cfg Config, logger *slog.Logger) *Tesseract {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Tesseract{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// Available reports whether both external binaries resolve on this host.
// The pipeline uses this to fail fast with a distinct "unavailable" signal
// instead of silently returning empty text.
func (t *Tesseract) Available() bool {
	if _, err := exec.LookPath(t.cfg.Pdftoppm); err != nil {
		return false
	}
	if _, err := exec.LookPath(t.cfg.Tesseract); err != nil {
		return false
	}
	return true
}

// Recognize rasterizes every page of the PDF and returns the recognized
// text of all pages, whitespace-collapsed into single spaces. An empty
// result with a nil error means OCR ran and found nothing.
func (t *Tesseract) Recognize(ctx context.Context, pdfData []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "intake-ocr-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			t.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	in := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(in, pdfData, 0o600); err != nil {
		return "", err
	}

	// pdftoppm -r 300 -png in.pdf <tmp>/page
	prefix := filepath.Join(tmpDir, "page")
	if _, errb, err := t.runner.Run(ctx, t.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", t.cfg.DPI), "-png", in, prefix); err != nil {
		return "", fmt.Errorf("rasterize: %w: %s", err, truncate(string(errb), 512))
	}

	// pdftoppm zero-pads page numbers, so lexicographic order is page order.
	images, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(images)
	if t.cfg.MaxPages > 0 && len(images) > t.cfg.MaxPages {
		images = images[:t.cfg.MaxPages]
	}
	if len(images) == 0 {
		return "", fmt.Errorf("rasterize: no pages rendered")
	}

	texts := make([]string, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Workers)
	for i, img := range images {
		i, img := i, img
		g.Go(func() error {
			txt, err := t.recognizePage(gctx, img)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			texts[i] = txt
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	t.logger.Debug("ocr complete", "pages", len(images), "lang", t.cfg.Lang)
	// Collapse tesseract's newlines and page joins; blank pages vanish.
	return strings.Join(strings.Fields(strings.Join(texts, " ")), " "), nil
}

func (t *Tesseract) recognizePage(ctx context.Context, imgPath string) (string, error) {
	args := []string{imgPath, "stdout", "-l", t.cfg.Lang}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
