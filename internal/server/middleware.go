package server

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/amara-nwosu/patient-intake/internal/store"
)

// statusRecorder captures the response code for activity logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withActivityLog records each request to the activity_logs table. Noisy
// read-only paths are skipped so list refreshes don't flood the audit
// trail.
func (s *Server) withActivityLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if skipActivityLog(r) {
			next.ServeHTTP(w, r)
			return
		}

		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := activityParams(r, rec.status, requestID)
		if err := s.store.InsertActivity(r.Context(), entry); err != nil {
			// Logging must never fail the request.
			s.logger.Warn("failed to log request",
				"request_id", requestID, "method", r.Method, "path", r.URL.Path, "error", err)
		}
	})
}

func skipActivityLog(r *http.Request) bool {
	path := r.URL.Path
	if r.Method == http.MethodGet {
		switch path {
		case "/activity-logs", "/deleted-orders", "/orders":
			return true
		}
	}
	return path == "/" ||
		path == "/health" ||
		strings.HasPrefix(path, "/assets/") ||
		strings.HasPrefix(path, "/favicon")
}

func activityParams(r *http.Request, status int, requestID string) store.ActivityParams {
	var body string
	switch r.Method {
	case http.MethodPost:
		switch {
		case strings.Contains(r.URL.Path, "/extract/patient-info"):
			body = "Document upload for patient info extraction"
		case strings.Contains(r.URL.Path, "/orders"):
			body = "New order creation request"
		default:
			ct := r.Header.Get("Content-Type")
			switch {
			case strings.Contains(ct, "multipart/form-data"):
				body = "File upload request"
			case strings.Contains(ct, "application/json"):
				body = "JSON API request"
			default:
				body = fmt.Sprintf("Request with content-type: %s", ct)
			}
		}
	case http.MethodDelete:
		body = fmt.Sprintf("Delete operation on %s", r.URL.Path)
	case http.MethodPut:
		body = fmt.Sprintf("Update operation on %s", r.URL.Path)
	}

	ip := clientIP(r)
	out := store.ActivityParams{
		RequestID:  &requestID,
		Method:     r.Method,
		Path:       r.URL.Path,
		StatusCode: &status,
	}
	if ip != "" {
		out.IPAddress = &ip
	}
	if body != "" {
		out.Body = &body
	}
	return out
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// withCORS allows any origin, for local development and simple
// single-host deployments.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
