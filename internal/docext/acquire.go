package docext

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/amara-nwosu/patient-intake/constants"
)

// AcquirerConfig wires the decoders and the OCR backend. Zero-value
// decoders fall back to the package defaults; a nil OCR engine means the
// fallback is unavailable.
type AcquirerConfig struct {
	PDF  PageDecoder
	DOCX ParagraphDecoder
	OCR  Engine

	// StrictTypes rejects extensions outside the pdf/docx/text
	// allow-list with an unsupported_file_type failure. Off by default:
	// the reference behavior decodes unknown extensions as plain text.
	StrictTypes bool
}

// Acquirer converts a document's bytes into normalized text, dispatching
// by the filename's suffix chain and falling back to OCR when a PDF's text
// layer is empty.
type Acquirer struct {
	cfg    AcquirerConfig
	logger *slog.Logger
}

func NewAcquirer(cfg AcquirerConfig, logger *slog.Logger) *Acquirer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PDF == nil {
		cfg.PDF = NewPDFDecoder()
	}
	if cfg.DOCX == nil {
		cfg.DOCX = NewDOCXDecoder()
	}
	return &Acquirer{cfg: cfg, logger: logger}
}

// Acquire produces whitespace-normalized text for the document. Failures
// are typed *Error values; see the Kind constants for the taxonomy.
func (a *Acquirer) Acquire(ctx context.Context, doc RawDocument) (NormalizedText, error) {
	chain := constants.SuffixChain(doc.Filename)
	format := constants.MapChainToFormat(chain)
	a.logger.Debug("acquiring text", "filename", doc.Filename, "chain", chain, "format", format)

	switch format {
	case constants.PDF:
		return a.acquirePDF(ctx, doc)
	case constants.DOCX:
		return a.acquireDOCX(doc)
	default:
		if a.cfg.StrictTypes && !constants.IsTextChain(chain) {
			return NormalizedText{}, NewError(KindUnsupportedFileType, "extension "+chain+" is not allowed", nil)
		}
		return a.acquireText(doc), nil
	}
}

func (a *Acquirer) acquirePDF(ctx context.Context, doc RawDocument) (NormalizedText, error) {
	pages, err := a.cfg.PDF.ExtractPages(doc.Data)
	if err != nil {
		return NormalizedText{}, NewError(KindMalformedDocument, "could not parse PDF", err)
	}

	text := Normalize(strings.Join(pages, " "))
	if text != "" {
		return NormalizedText{Text: text}, nil
	}

	// No embedded text on any page: scanned or faxed document.
	if !doc.OCREnabled {
		return NormalizedText{}, NewError(KindNoExtractableText,
			"PDF contains no extractable text; enable OCR to process scanned documents", nil)
	}
	if a.cfg.OCR == nil || !a.cfg.OCR.Available() {
		return NormalizedText{}, NewError(KindOCRUnavailable,
			"OCR backend is not installed or configured", nil)
	}

	a.logger.Debug("text layer empty, falling back to ocr", "filename", doc.Filename, "pages", len(pages))
	raw, err := a.cfg.OCR.Recognize(ctx, doc.Data)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			return NormalizedText{}, e
		}
		return NormalizedText{}, NewError(KindOCRFailed, "ocr recognition failed", err)
	}
	// Empty recognition is a success: the extractor runs against empty
	// text and yields all-null fields.
	return NormalizedText{Text: Normalize(raw), UsedOCR: true}, nil
}

func (a *Acquirer) acquireDOCX(doc RawDocument) (NormalizedText, error) {
	paragraphs, err := a.cfg.DOCX.Paragraphs(doc.Data)
	if err != nil {
		return NormalizedText{}, NewError(KindMalformedDocument, "could not parse DOCX", err)
	}
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if n := Normalize(p); n != "" {
			kept = append(kept, n)
		}
	}
	return NormalizedText{Text: strings.Join(kept, " ")}, nil
}

// acquireText decodes any other payload as UTF-8, dropping invalid byte
// sequences rather than failing. Empty text is a valid result here.
func (a *Acquirer) acquireText(doc RawDocument) NormalizedText {
	return NormalizedText{Text: Normalize(strings.ToValidUTF8(string(doc.Data), ""))}
}
