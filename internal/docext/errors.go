package docext

import (
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so callers can map it to their own
// transport-level signals.
type Kind string

const (
	// KindUnsupportedFileType is only produced in strict mode; the
	// default policy routes unknown extensions to plain-text decoding.
	KindUnsupportedFileType Kind = "unsupported_file_type"
	// KindNoExtractableText means a PDF had no embedded text and OCR
	// was disabled.
	KindNoExtractableText Kind = "no_extractable_text"
	// KindOCRUnavailable means the OCR backend is absent or not
	// configured on this host.
	KindOCRUnavailable Kind = "ocr_unavailable"
	// KindOCRFailed means the OCR backend was present but failed while
	// processing. OCR is attempted exactly once; there are no retries.
	KindOCRFailed Kind = "ocr_failed"
	// KindMalformedDocument means the decoder could not parse the bytes
	// as the claimed format.
	KindMalformedDocument Kind = "malformed_document"
)

// Error is a typed acquisition failure.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a typed failure with an optional cause.
func NewError(kind Kind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: cause}
}

// KindOf returns the failure kind of err, or "" if err is not a pipeline
// failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
