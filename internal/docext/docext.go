// Package docext turns uploaded documents into best-effort patient fields.
//
// The pipeline is a strict three-stage chain: acquire text (with an OCR
// fallback for scanned PDFs), then run pattern-based field extraction over
// the normalized text. Every invocation is stateless, so concurrent
// invocations need no coordination.
package docext

import "context"

// RawDocument is an uploaded file plus the caller's routing hints.
// Immutable once handed to the pipeline.
type RawDocument struct {
	Data       []byte
	Filename   string
	OCREnabled bool
}

// NormalizedText is the acquisition output: whitespace-collapsed,
// newline-free text and a flag recording whether OCR produced it.
type NormalizedText struct {
	Text    string
	UsedOCR bool
}

// PatientFields is the terminal pipeline artifact. A nil field means the
// matching rule found nothing; that is never an error. DateOfBirth is the
// raw matched substring, not a validated calendar date.
type PatientFields struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Address     *string `json:"address"`
	Phone       *string `json:"phone"`
	UsedOCR     bool    `json:"used_ocr"`
}

// PageDecoder reads a PDF text layer: one string per page, in page order,
// empty where a page has no embedded text.
type PageDecoder interface {
	ExtractPages(data []byte) ([]string, error)
}

// ParagraphDecoder reads DOCX paragraph texts in document order.
type ParagraphDecoder interface {
	Paragraphs(data []byte) ([]string, error)
}

// Engine is the pluggable OCR backend used when a PDF has no embedded
// text. Available must report false when the backend is not installed or
// configured, so the pipeline can fail fast instead of silently returning
// empty text. Recognize returning ("", nil) means OCR ran and found
// nothing, which is a valid outcome.
type Engine interface {
	Available() bool
	Recognize(ctx context.Context, pdfData []byte) (string, error)
}
