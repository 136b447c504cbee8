package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner fakes pdftoppm by writing empty page images under the output
// prefix, and fakes tesseract by returning canned text per image.
type stubRunner struct {
	pages     int
	pageText  func(img string) (string, error)
	rasterErr error

	mu    sync.Mutex
	calls []string
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()

	if strings.Contains(name, "pdftoppm") {
		if s.rasterErr != nil {
			return nil, []byte("rasterize boom"), s.rasterErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%02d.png", prefix, i), []byte{0}, 0o600); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}

	// tesseract <img> stdout -l <lang>
	img := args[0]
	txt, err := s.pageText(img)
	if err != nil {
		return nil, []byte("tesseract boom"), err
	}
	return []byte(txt), nil, nil
}

func pageNumber(img string) string {
	base := strings.TrimSuffix(img, ".png")
	return base[strings.LastIndex(base, "-")+1:]
}

func newTestEngine(t *testing.T, r Runner, cfg Config) *Tesseract {
	t.Helper()
	eng := NewTesseract(cfg, nil)
	eng.runner = r
	return eng
}

func TestRecognizePreservesPageOrder(t *testing.T) {
	stub := &stubRunner{
		pages: 3,
		pageText: func(img string) (string, error) {
			return "page" + pageNumber(img), nil
		},
	}
	eng := newTestEngine(t, stub, Config{Workers: 2})

	got, err := eng.Recognize(context.Background(), []byte("%PDF-fake"))
	require.NoError(t, err)
	assert.Equal(t, "page01 page02 page03", got)
}

func TestRecognizeMaxPagesCap(t *testing.T) {
	stub := &stubRunner{
		pages: 5,
		pageText: func(img string) (string, error) {
			return "p" + pageNumber(img), nil
		},
	}
	eng := newTestEngine(t, stub, Config{MaxPages: 2})

	got, err := eng.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "p01 p02", got)
}

func TestRecognizeNoPagesRendered(t *testing.T) {
	stub := &stubRunner{pages: 0, pageText: func(string) (string, error) { return "", nil }}
	eng := newTestEngine(t, stub, Config{})

	_, err := eng.Recognize(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no pages rendered")
}

func TestRecognizeRasterizeFailure(t *testing.T) {
	stub := &stubRunner{rasterErr: errors.New("exit status 1")}
	eng := newTestEngine(t, stub, Config{})

	_, err := eng.Recognize(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rasterize")
	assert.Contains(t, err.Error(), "rasterize boom")
}

func TestRecognizePageFailureAborts(t *testing.T) {
	stub := &stubRunner{
		pages: 3,
		pageText: func(img string) (string, error) {
			if pageNumber(img) == "02" {
				return "", errors.New("exit status 1")
			}
			return "ok", nil
		},
	}
	eng := newTestEngine(t, stub, Config{Workers: 1})

	_, err := eng.Recognize(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
}

func TestRecognizeEmptyPagesIsSuccess(t *testing.T) {
	stub := &stubRunner{
		pages:    2,
		pageText: func(string) (string, error) { return "", nil },
	}
	eng := newTestEngine(t, stub, Config{})

	got, err := eng.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestRecognizeCollapsesWhitespace(t *testing.T) {
	stub := &stubRunner{
		pages: 2,
		pageText: func(img string) (string, error) {
			return "line one\nline two\n\n", nil
		},
	}
	eng := newTestEngine(t, stub, Config{})

	got, err := eng.Recognize(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "line one line two line one line two", got)
}

func TestAvailableFalseForMissingBinaries(t *testing.T) {
	eng := NewTesseract(Config{
		Pdftoppm:  "definitely-not-a-real-binary-xyz",
		Tesseract: "also-not-real-xyz",
	}, nil)
	assert.False(t, eng.Available())
}

func TestConfigDefaults(t *testing.T) {
	eng := NewTesseract(Config{}, nil)
	assert.Equal(t, "pdftoppm", eng.cfg.Pdftoppm)
	assert.Equal(t, "tesseract", eng.cfg.Tesseract)
	assert.Equal(t, "eng", eng.cfg.Lang)
	assert.Equal(t, 300, eng.cfg.DPI)
	assert.Equal(t, 4, eng.cfg.Workers)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...(truncated)", truncate("abcdef", 3))
}
