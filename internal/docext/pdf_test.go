package docext_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amara-nwosu/patient-intake/internal/docext"
)

// Decoding real PDFs needs binary fixtures, so the positive path is
// exercised through the acquirer with a fake PageDecoder; these tests pin
// down the failure behavior of the real one.

func TestPDFEmptyInput(t *testing.T) {
	_, err := docext.NewPDFDecoder().ExtractPages(nil)
	assert.Error(t, err)
}

func TestPDFGarbageInput(t *testing.T) {
	_, err := docext.NewPDFDecoder().ExtractPages([]byte("this is not a pdf at all"))
	assert.Error(t, err)
}

func TestPDFTruncatedHeader(t *testing.T) {
	// A valid header with a destroyed body must come back as an error,
	// not a panic.
	data := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0x00}, 64)...)
	_, err := docext.NewPDFDecoder().ExtractPages(data)
	assert.Error(t, err)
}

func TestPDFCorruptXref(t *testing.T) {
	data := []byte("%PDF-1.4\nxref\n0 1\ngarbage\ntrailer\n<<>>\nstartxref\n9\n%%EOF")
	_, err := docext.NewPDFDecoder().ExtractPages(data)
	assert.Error(t, err)
}
