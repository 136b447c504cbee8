package docext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

type pdfDecoder struct{}

// NewPDFDecoder returns the default text-layer decoder. Pages without
// embedded text (or with text the reader cannot decode) yield an empty
// string rather than an error, mirroring how scanned pages behave.
func NewPDFDecoder() PageDecoder {
	return pdfDecoder{}
}

func (pdfDecoder) ExtractPages(data []byte) (pages []string, err error) {
	// The reader panics on some malformed cross-reference tables;
	// surface those as parse errors instead.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("pdf parse: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("pdf parse: %w", err)
	}

	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, perr := p.GetPlainText(nil)
		if perr != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}
