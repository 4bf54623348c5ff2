// Package ocr abstracts the external text recognition service used for
// field extraction.
//
// Engines receive a small pre-cropped, pre-binarized PNG containing a
// single line of text and return the recognized string. Two providers are
// available:
//
//   - Tesseract (default), via gosseract. Requires the tesseract library
//     to be installed on the system.
//   - Google Cloud Vision, selected with OCR_ENGINE=vision. Requires
//     GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS in the
//     environment.
//
// Recognition is stateless and synchronous with no retries; a failing
// engine aborts the whole run.
package ocr

import (
	"context"
	"fmt"
	"strings"
)

// Request carries one cropped region to a recognition engine.
type Request struct {
	// Image is the PNG-encoded, binarized crop.
	Image []byte

	// Language is the recognition language tag (e.g. "eng").
	Language string

	// Whitelist restricts the characters the engine may emit. Empty means
	// unrestricted.
	Whitelist string
}

// Engine recognizes a single line of text in a cropped region.
type Engine interface {
	// Name identifies the engine for logging.
	Name() string

	// Recognize returns the recognized text with surrounding whitespace
	// trimmed.
	Recognize(ctx context.Context, req Request) (string, error)
}

// Known engine names for New.
const (
	EngineTesseract = "tesseract"
	EngineVision    = "vision"
)

// New constructs the engine selected by name. An empty name selects
// Tesseract.
func New(ctx context.Context, name string) (Engine, error) {
	switch name {
	case "", EngineTesseract:
		return NewTesseractEngine(), nil
	case EngineVision:
		return NewVisionEngine(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// filterWhitelist drops characters outside the whitelist from recognized
// text. Engines without native whitelist support use it to honor the
// contract after the fact.
func filterWhitelist(text, whitelist string) string {
	if whitelist == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(whitelist, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
