package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/amara-nwosu/patient-intake/internal/docext"
)

// ExtractPatientInfo accepts a multipart upload under the "file" field and
// returns the patient fields pulled from it. The optional "ocr_enabled"
// field (default true) controls the scanned-PDF fallback.
func (s *Server) ExtractPatientInfo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large or malformed")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, `missing "file" field`)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	ocrEnabled := true
	if raw := r.FormValue("ocr_enabled"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			ocrEnabled = v
		}
	}

	fields, err := s.pipeline.Process(r.Context(), docext.RawDocument{
		Data:       data,
		Filename:   header.Filename,
		OCREnabled: ocrEnabled,
	})
	if err != nil {
		s.writeExtractError(w, header.Filename, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// writeExtractError maps pipeline failure kinds onto HTTP statuses. Caller
// mistakes get 4xx; a missing or broken OCR backend is a server problem.
func (s *Server) writeExtractError(w http.ResponseWriter, filename string, err error) {
	var e *docext.Error
	if !errors.As(err, &e) {
		s.logger.Error("extract.fail", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, "extraction failed")
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case docext.KindUnsupportedFileType:
		status = http.StatusUnsupportedMediaType
	case docext.KindNoExtractableText:
		status = http.StatusUnprocessableEntity
	case docext.KindMalformedDocument:
		status = http.StatusBadRequest
	case docext.KindOCRUnavailable, docext.KindOCRFailed:
		s.logger.Error("extract.ocr.fail", "filename", filename, "error", err)
	}
	writeError(w, status, e.Detail)
}
