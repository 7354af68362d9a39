package ocr

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRunner fakes the external binaries per command name.
type stubRunner struct {
	fn func(name string, args []string) ([]byte, []byte, error)
}

func (s stubRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	return s.fn(name, args)
}

func newStubExtractor(t *testing.T, cfg Config, fn func(name string, args []string) ([]byte, []byte, error)) *Extractor {
	t.Helper()
	e := NewExtractor(cfg, nil)
	e.runner = stubRunner{fn: fn}
	return e
}

const textLayer = "Invoice: 12345\nDelivered to ACME Corporation on 15/01/2024\nReceived by driver"

func TestExtractTextLayer(t *testing.T) {
	e := newStubExtractor(t, Config{}, func(name string, args []string) ([]byte, []byte, error) {
		require.Equal(t, "pdftotext", name)
		return []byte(textLayer + "\f more on page two\n"), nil, nil
	})

	res, err := e.Extract(context.Background(), "/pods/12345.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Equal(t, 2, res.Pages)
	assert.True(t, strings.HasPrefix(res.Text, "Invoice: 12345"))
}

func TestExtractShortTextLayerFallsBackToOCR(t *testing.T) {
	e := newStubExtractor(t, Config{}, func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftotext":
			return []byte("  \n"), nil, nil
		case "pdftoppm":
			prefix := args[len(args)-1]
			require.NoError(t, os.WriteFile(prefix+"-1.png", []byte("png"), 0o644))
			return nil, nil, nil
		case "tesseract":
			return []byte("OCR TEXT"), nil, nil
		}
		return nil, nil, errors.New("unexpected command " + name)
	})

	res, err := e.Extract(context.Background(), "/pods/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	assert.Equal(t, 1, res.Pages)
	assert.Equal(t, "OCR TEXT", res.Text)
}

func TestExtractOCRMode(t *testing.T) {
	e := newStubExtractor(t, Config{UseOCR: true, MaxPages: 2}, func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftoppm":
			prefix := args[len(args)-1]
			for _, n := range []string{"-1", "-2", "-3"} {
				require.NoError(t, os.WriteFile(prefix+n+".png", []byte("png"), 0o644))
			}
			return nil, nil, nil
		case "tesseract":
			return []byte("page text"), nil, nil
		}
		return nil, nil, errors.New("unexpected command " + name)
	})

	res, err := e.Extract(context.Background(), "/pods/scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-ocr", res.Method)
	// MaxPages caps the rasterized pages handed to tesseract.
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, 2, strings.Count(res.Text, "page text"))
}

func TestExtractOCRFailureUsesTextLayer(t *testing.T) {
	e := newStubExtractor(t, Config{UseOCR: true}, func(name string, args []string) ([]byte, []byte, error) {
		switch name {
		case "pdftoppm":
			return nil, []byte("Syntax Error"), errors.New("exit status 1")
		case "pdftotext":
			return []byte(textLayer), nil, nil
		}
		return nil, nil, errors.New("unexpected command " + name)
	})

	res, err := e.Extract(context.Background(), "/pods/odd.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdf-text", res.Method)

	joined := strings.Join(res.Warnings, "; ")
	assert.Contains(t, joined, "ocr failed")
}

func TestExtractEverythingFails(t *testing.T) {
	e := newStubExtractor(t, Config{UseOCR: true}, func(name string, args []string) ([]byte, []byte, error) {
		return nil, nil, errors.New(name + " not found")
	})

	_, err := e.Extract(context.Background(), "/pods/broken.pdf")
	assert.Error(t, err)
}

func TestAvailable(t *testing.T) {
	e := newStubExtractor(t, Config{}, func(name string, args []string) ([]byte, []byte, error) {
		if name == "tesseract" {
			return []byte("tesseract 5.3.0\n leptonica"), nil, nil
		}
		return nil, nil, nil
	})

	ok, msg := e.Available(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "tesseract 5.3.0 available", msg)
}

func TestAvailableMissingTesseract(t *testing.T) {
	e := newStubExtractor(t, Config{}, func(name string, args []string) ([]byte, []byte, error) {
		return nil, nil, errors.New("not found")
	})

	ok, msg := e.Available(context.Background())
	assert.False(t, ok)
	assert.Contains(t, msg, "tesseract")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "abcde...(truncated)", truncate("abcdefgh", 5))
}
