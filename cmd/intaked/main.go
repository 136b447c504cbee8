package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amara-nwosu/patient-intake/internal/common"
	"github.com/amara-nwosu/patient-intake/internal/docext"
	"github.com/amara-nwosu/patient-intake/internal/export"
	"github.com/amara-nwosu/patient-intake/internal/ocr"
	"github.com/amara-nwosu/patient-intake/internal/server"
	"github.com/amara-nwosu/patient-intake/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	cfg, err := common.Load(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Database.DSN, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	engine := ocr.NewTesseract(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
		Workers:     cfg.OCR.Workers,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)
	if !engine.Available() {
		logger.Warn("OCR binaries not found; scanned PDFs will be rejected",
			"pdftoppm", cfg.OCR.Pdftoppm, "tesseract", cfg.OCR.Tesseract)
	}

	acquirer := docext.NewAcquirer(docext.AcquirerConfig{
		OCR:         engine,
		StrictTypes: cfg.Extract.StrictTypes,
	}, logger)
	pipeline := docext.NewProcessor(acquirer, docext.NewExtractor(logger), logger)

	srv := server.New(st, pipeline, export.NewService(st, logger), engine, cfg.Server.StaticDir, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "version", server.Version)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	logger.Info("stopped")
}
