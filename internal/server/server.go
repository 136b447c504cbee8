// Package server exposes the REST surface: order CRUD, activity logs,
// deleted-order history and the document extraction endpoint. The
// extraction core itself lives in internal/docext; this package only maps
// HTTP to pipeline calls and persists results of caller actions.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/amara-nwosu/patient-intake/internal/docext"
	"github.com/amara-nwosu/patient-intake/internal/export"
	"github.com/amara-nwosu/patient-intake/internal/store"
)

const Version = "1.2.0"

// MaxUploadSize caps document uploads at 10MB.
const MaxUploadSize = 10 << 20

// DocumentProcessor runs the extraction pipeline for one uploaded file.
type DocumentProcessor interface {
	Process(ctx context.Context, doc docext.RawDocument) (docext.PatientFields, error)
}

// OCRProbe reports whether the OCR backend is usable, for health checks.
type OCRProbe interface {
	Available() bool
}

type Server struct {
	store     *store.Store
	pipeline  DocumentProcessor
	export    *export.Service
	ocr       OCRProbe
	staticDir string
	logger    *slog.Logger
	started   time.Time
}

func New(st *store.Store, pipeline DocumentProcessor, exp *export.Service, ocr OCRProbe, staticDir string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     st,
		pipeline:  pipeline,
		export:    exp,
		ocr:       ocr,
		staticDir: staticDir,
		logger:    logger,
		started:   time.Now(),
	}
}

// Routes configures the HTTP routes and wraps them with the CORS and
// activity-log middleware.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/orders", s.CreateOrder).Methods("POST")
	router.HandleFunc("/orders", s.ListOrders).Methods("GET")
	router.HandleFunc("/orders/export", s.ExportOrders).Methods("GET")
	router.HandleFunc("/orders/{id:[0-9]+}", s.GetOrder).Methods("GET")
	router.HandleFunc("/orders/{id:[0-9]+}", s.UpdateOrder).Methods("PUT")
	router.HandleFunc("/orders/{id:[0-9]+}", s.DeleteOrder).Methods("DELETE")

	router.HandleFunc("/deleted-orders", s.ListDeletedOrders).Methods("GET")
	router.HandleFunc("/activity-logs", s.ListActivityLogs).Methods("GET")

	router.HandleFunc("/extract/patient-info", s.ExtractPatientInfo).Methods("POST")

	router.HandleFunc("/health", s.Health).Methods("GET")

	// Serve compiled frontend assets when present. Must come after the
	// API routes.
	if s.staticDir != "" {
		if _, err := os.Stat(s.staticDir); err == nil {
			router.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
		}
	}

	return s.withCORS(s.withActivityLog(router))
}

// HealthResponse reports service and dependency status.
type HealthResponse struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Uptime    string        `json:"uptime"`
	OCR       ServiceStatus `json:"ocr"`
	Memory    MemoryStats   `json:"memory"`
}

type ServiceStatus struct {
	Available bool   `json:"available"`
	Error     string `json:"error,omitempty"`
}

type MemoryStats struct {
	AllocatedMB float64 `json:"allocated_mb"`
	SystemMB    float64 `json:"system_mb"`
}

// Health probes the OCR backend. The service stays "healthy" without OCR
// because direct text extraction still works; the flag lets operators see
// that scanned documents will be rejected.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	ocrStatus := ServiceStatus{Available: s.ocr != nil && s.ocr.Available()}
	if !ocrStatus.Available {
		ocrStatus.Error = "pdftoppm or tesseract not found"
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now().Format(time.RFC3339),
		Uptime:    time.Since(s.started).String(),
		OCR:       ocrStatus,
		Memory: MemoryStats{
			AllocatedMB: float64(m.Alloc) / 1024 / 1024,
			SystemMB:    float64(m.Sys) / 1024 / 1024,
		},
	})
}
