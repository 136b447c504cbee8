package docext_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amara-nwosu/patient-intake/internal/docext"
)

type fakePDF struct {
	pages []string
	err   error
}

func (f fakePDF) ExtractPages(data []byte) ([]string, error) {
	return f.pages, f.err
}

type fakeEngine struct {
	available bool
	text      string
	err       error
	called    bool
}

func (f *fakeEngine) Available() bool { return f.available }

func (f *fakeEngine) Recognize(ctx context.Context, pdfData []byte) (string, error) {
	f.called = true
	return f.text, f.err
}

func TestAcquirePlainText(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte("Patient Name: Jane Doe\n\tDOB: 01/02/1990"),
		Filename: "intake.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "Patient Name: Jane Doe DOB: 01/02/1990", nt.Text)
	assert.False(t, nt.UsedOCR)
}

func TestAcquireUnknownExtensionDecodesAsText(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte("First Name: Ana"),
		Filename: "upload.dat",
	})
	require.NoError(t, err)
	assert.Equal(t, "First Name: Ana", nt.Text)
}

func TestAcquireStrictRejectsUnknownExtension(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{StrictTypes: true}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte("anything"),
		Filename: "upload.dat",
	})
	assert.Equal(t, docext.KindUnsupportedFileType, docext.KindOf(err))
}

func TestAcquireStrictAllowsTextChain(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{StrictTypes: true}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte("hello"),
		Filename: "notes.md",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", nt.Text)
}

func TestAcquireInvalidUTF8Dropped(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte{'o', 'k', 0xff, 0xfe, ' ', 'g', 'o'},
		Filename: "dump.log",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok go", nt.Text)
}

func TestAcquirePDFWithTextLayer(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{"Patient Name: Jane Doe", "", "Phone: 555-1234"}},
	}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{Filename: "scan.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "Patient Name: Jane Doe Phone: 555-1234", nt.Text)
	assert.False(t, nt.UsedOCR)
}

func TestAcquirePDFChainRouting(t *testing.T) {
	// ".pdf" anywhere in the suffix chain routes to the PDF decoder.
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{"from pdf"}},
	}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{Filename: "scan.pdf.txt"})
	require.NoError(t, err)
	assert.Equal(t, "from pdf", nt.Text)
}

func TestAcquireMalformedPDF(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{err: errors.New("bad xref")},
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{Filename: "broken.pdf"})
	assert.Equal(t, docext.KindMalformedDocument, docext.KindOf(err))
}

func TestAcquireEmptyPDFWithoutOCR(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{"", ""}},
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: false,
	})
	assert.Equal(t, docext.KindNoExtractableText, docext.KindOf(err))
}

func TestAcquireOCRUnavailable(t *testing.T) {
	engine := &fakeEngine{available: false}
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
		OCR: engine,
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	assert.Equal(t, docext.KindOCRUnavailable, docext.KindOf(err))
	assert.False(t, engine.called)
}

func TestAcquireNilEngineUnavailable(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	assert.Equal(t, docext.KindOCRUnavailable, docext.KindOf(err))
}

func TestAcquireOCRFallback(t *testing.T) {
	engine := &fakeEngine{available: true, text: " Patient Name:  Ana Lee "}
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
		OCR: engine,
	}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	require.NoError(t, err)
	assert.True(t, engine.called)
	assert.Equal(t, "Patient Name: Ana Lee", nt.Text)
	assert.True(t, nt.UsedOCR)
}

func TestAcquireOCREmptyResultIsSuccess(t *testing.T) {
	engine := &fakeEngine{available: true, text: ""}
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
		OCR: engine,
	}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "", nt.Text)
	assert.True(t, nt.UsedOCR)
}

func TestAcquireOCRFailure(t *testing.T) {
	engine := &fakeEngine{available: true, err: errors.New("tesseract crashed")}
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
		OCR: engine,
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	assert.Equal(t, docext.KindOCRFailed, docext.KindOf(err))
}

func TestAcquireOCRTypedErrorPassthrough(t *testing.T) {
	typed := docext.NewError(docext.KindOCRUnavailable, "no language data", nil)
	engine := &fakeEngine{available: true, err: typed}
	a := docext.NewAcquirer(docext.AcquirerConfig{
		PDF: fakePDF{pages: []string{""}},
		OCR: engine,
	}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Filename:   "scan.pdf",
		OCREnabled: true,
	})
	assert.Equal(t, docext.KindOCRUnavailable, docext.KindOf(err))
}

func TestAcquireDOCX(t *testing.T) {
	data := buildDOCX(t, []string{"Patient Name: Jane Doe", "", "  ", "Phone: 555-1234"})
	a := docext.NewAcquirer(docext.AcquirerConfig{}, nil)

	nt, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     data,
		Filename: "intake.docx",
	})
	require.NoError(t, err)
	assert.Equal(t, "Patient Name: Jane Doe Phone: 555-1234", nt.Text)
}

func TestAcquireDOCXMalformed(t *testing.T) {
	a := docext.NewAcquirer(docext.AcquirerConfig{}, nil)

	_, err := a.Acquire(context.Background(), docext.RawDocument{
		Data:     []byte("not a zip archive"),
		Filename: "intake.docx",
	})
	assert.Equal(t, docext.KindMalformedDocument, docext.KindOf(err))
}

// buildDOCX assembles a minimal .docx: a zip with word/document.xml
// containing one w:p per paragraph.
func buildDOCX(t *testing.T, paragraphs []string) []byte {
	t.Helper()

	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>`)
		xmlEscape(&doc, p)
		doc.WriteString(`</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func xmlEscape(buf *bytes.Buffer, s string) {
	for _, r := range s {
		switch r {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		default:
			buf.WriteRune(r)
		}
	}
}
